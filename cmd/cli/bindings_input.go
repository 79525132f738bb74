package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/shellengine/internal/bindings"
	"github.com/temirov/shellengine/internal/engine"
)

const (
	bindingAssignmentSeparatorConstant     = "="
	invalidBindingErrorTemplateConstant    = "%w: %q (expected key=value)"
	bindingsFileReadErrorTemplateConstant  = "unable to read bindings file %s: %w"
	bindingsFileParseErrorTemplateConstant = "unable to parse bindings file %s: %w"
)

// ErrInvalidBinding indicates a --binding value without a key.
var ErrInvalidBinding = errors.New("invalid binding")

// bindingInputs collects the binding sources supplied on the command line.
type bindingInputs struct {
	assignments    []string
	filePath       string
	language       string
	commandCharset string
}

// build merges the bindings file, the key=value assignments, and the dispatch hints in that order of precedence.
func (inputs bindingInputs) build() (bindings.Bindings, error) {
	collectedBindings := bindings.Bindings{}

	trimmedFilePath := strings.TrimSpace(inputs.filePath)
	if len(trimmedFilePath) > 0 {
		fileBindings, fileError := loadBindingsFile(trimmedFilePath)
		if fileError != nil {
			return nil, fileError
		}
		for bindingName, bindingValue := range fileBindings {
			collectedBindings[bindingName] = bindingValue
		}
	}

	for _, assignment := range inputs.assignments {
		bindingName, bindingValue, hasSeparator := strings.Cut(assignment, bindingAssignmentSeparatorConstant)
		if !hasSeparator || len(strings.TrimSpace(bindingName)) == 0 {
			return nil, fmt.Errorf(invalidBindingErrorTemplateConstant, ErrInvalidBinding, assignment)
		}
		collectedBindings[strings.TrimSpace(bindingName)] = bindingValue
	}

	if len(inputs.language) > 0 {
		collectedBindings[engine.LanguageBindingKey] = inputs.language
	}
	if len(inputs.commandCharset) > 0 {
		collectedBindings[engine.CommandCharsetBindingKey] = inputs.commandCharset
	}

	return collectedBindings, nil
}

func loadBindingsFile(filePath string) (map[string]any, error) {
	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(bindingsFileReadErrorTemplateConstant, filePath, readError)
	}

	fileBindings := map[string]any{}
	if unmarshalError := yaml.Unmarshal(fileContent, &fileBindings); unmarshalError != nil {
		return nil, fmt.Errorf(bindingsFileParseErrorTemplateConstant, filePath, unmarshalError)
	}
	return fileBindings, nil
}
