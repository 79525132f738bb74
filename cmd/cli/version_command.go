package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/shellengine/internal/engine"
	"github.com/temirov/shellengine/internal/shells"
)

const (
	versionCommandUseConstant              = "version [shell-name]"
	versionCommandShortDescriptionConstant = "Print the installed and major version of a shell"
	versionCommandLongDescriptionConstant  = "version queries the selected shell, or the configured default shell, for its full and major version."
	versionOutputTemplateConstant          = "%s %s (major %s)\n"
	versionEngineProviderMissingConstant   = "version command requires an engine provider"
	versionDetailsFlagNameConstant         = "details"
	versionDetailsFlagUsageConstant        = "Also print the engine metadata: names, extensions and MIME types."
	versionDetailsTemplateConstant         = "engine: %s (%s)\nlanguage: %s %s\nnames: %s\nextensions: %s\nmime types: %s\n"
	versionDetailsListSeparatorConstant    = ", "
)

// VersionCommandBuilder assembles the version command.
type VersionCommandBuilder struct {
	EngineProvider       func(shells.ShellDescriptor) (*engine.Engine, error)
	DefaultShellProvider func() string
}

// Build constructs the version command.
func (builder *VersionCommandBuilder) Build() (*cobra.Command, error) {
	if builder.EngineProvider == nil {
		return nil, errors.New(versionEngineProviderMissingConstant)
	}
	command := &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortDescriptionConstant,
		Long:  versionCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}
	command.Flags().Bool(versionDetailsFlagNameConstant, false, versionDetailsFlagUsageConstant)
	return command, nil
}

func (builder *VersionCommandBuilder) run(command *cobra.Command, arguments []string) error {
	shellName := ""
	if len(arguments) > 0 {
		shellName = arguments[0]
	} else if builder.DefaultShellProvider != nil {
		shellName = builder.DefaultShellProvider()
	}

	shellDescriptor, resolveError := shells.ResolveOrDefault(shellName)
	if resolveError != nil {
		return fmt.Errorf(shellResolutionErrorTemplateConstant, resolveError)
	}

	scriptEngine, engineError := builder.EngineProvider(shellDescriptor)
	if engineError != nil {
		return engineError
	}

	metadata := scriptEngine.Metadata(command.Context())
	if _, printError := fmt.Fprintf(
		command.OutOrStdout(),
		versionOutputTemplateConstant,
		shellDescriptor.Name(),
		metadata.EngineVersion,
		metadata.LanguageVersion,
	); printError != nil {
		return printError
	}
	if detailsRequested, _ := command.Flags().GetBool(versionDetailsFlagNameConstant); !detailsRequested {
		return nil
	}
	_, printError := fmt.Fprintf(
		command.OutOrStdout(),
		versionDetailsTemplateConstant,
		metadata.EngineName,
		metadata.Engine,
		metadata.LanguageName,
		metadata.LanguageVersion,
		strings.Join(metadata.Names, versionDetailsListSeparatorConstant),
		strings.Join(metadata.Extensions, versionDetailsListSeparatorConstant),
		strings.Join(metadata.MimeTypes, versionDetailsListSeparatorConstant),
	)
	return printError
}
