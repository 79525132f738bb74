package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/shellengine/internal/charset"
	"github.com/temirov/shellengine/internal/correlation"
	"github.com/temirov/shellengine/internal/engine"
	"github.com/temirov/shellengine/internal/execshell"
	"github.com/temirov/shellengine/internal/shells"
	"github.com/temirov/shellengine/internal/ui"
	"github.com/temirov/shellengine/internal/utils"
	"github.com/temirov/shellengine/internal/utils/flags"
)

const (
	applicationNameConstant                 = "shellengine"
	applicationUseConstant                  = applicationNameConstant + " <shell-name> [command words...]"
	applicationShortDescriptionConstant     = "Run a command line through bash or cmd"
	applicationLongDescriptionConstant      = "shellengine runs a command through a named shell, exposes bindings as environment variables, and exits with the command's exit code. Without command words the script is read from standard input."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	bindingFlagNameConstant                 = "binding"
	bindingFlagUsageConstant                = "Bind key=value as an environment variable (repeatable)."
	bindingsFileFlagNameConstant            = "bindings-file"
	bindingsFileFlagUsageConstant           = "YAML file whose top-level keys become bindings."
	languageFlagNameConstant                = "language"
	languageFlagUsageConstant               = "Script file extension such as .sh or .bat; runs the command from a temporary file."
	commandCharsetFlagNameConstant          = "command-charset"
	commandCharsetFlagUsageConstant         = "Charset used to write the temporary script file."
	timeoutFlagNameConstant                 = "timeout"
	timeoutFlagUsageConstant                = "Terminate the command after this duration (overrides engine.timeout_ms)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	engineConfigurationKeyConstant          = "engine"
	environmentPrefixConstant               = "SHELLENGINE"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationDirectoryNameConstant      = "shellengine"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	outputCharsetErrorTemplateConstant      = "unable to resolve output charset: %w"
	shellResolutionErrorTemplateConstant    = "unable to select shell: %w"
	rootCommandDebugMessageConstant         = "shellengine command received"
	forwardedOutputMessageConstant          = "forwarded command output"
	logFieldForwardedOutputBytesConstant    = "forwarded_stdout_bytes"
	logFieldForwardedErrorBytesConstant     = "forwarded_stderr_bytes"
	logFieldShellNameConstant               = "shell"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldInvocationConstant              = "invocation_id"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	commandWordSeparatorConstant            = " "
	failureExitCodeConstant                 = 1
)

var logFormatChoiceSet = flags.NewChoiceSet(
	logFormatFlagNameConstant,
	string(utils.LogFormatStructured),
	string(utils.LogFormatStructured),
	string(utils.LogFormatConsole),
)

var logLevelChoiceSet = flags.NewChoiceSet(
	logLevelFlagNameConstant,
	string(utils.LogLevelWarn),
	string(utils.LogLevelDebug),
	string(utils.LogLevelInfo),
	string(utils.LogLevelWarn),
	string(utils.LogLevelError),
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Engine engine.Configuration           `mapstructure:"engine"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	loggerSink             zapcore.WriteSyncer
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	bindingInputs          bindingInputs
	timeoutFlagValue       time.Duration
	commandContextAccessor utils.CommandContextAccessor
	outputStore            *correlation.MemoryOutputStore
	exitCode               int
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		outputStore:            correlation.NewMemoryOutputStore(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationUseConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelChoiceSet.Usage(logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatChoiceSet.Usage(logFormatFlagUsageConstant))

	// Everything after the shell name belongs to the command line.
	cobraCommand.Flags().SetInterspersed(false)
	cobraCommand.Flags().StringArrayVar(&application.bindingInputs.assignments, bindingFlagNameConstant, nil, bindingFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.bindingInputs.filePath, bindingsFileFlagNameConstant, "", bindingsFileFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.bindingInputs.language, languageFlagNameConstant, "", languageFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.bindingInputs.commandCharset, commandCharsetFlagNameConstant, "", commandCharsetFlagUsageConstant)
	cobraCommand.Flags().DurationVar(&application.timeoutFlagValue, timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)

	versionBuilder := VersionCommandBuilder{
		EngineProvider: application.buildEngine,
		DefaultShellProvider: func() string {
			return application.configuration.Engine.Shell
		},
	}
	versionCommand, versionBuildError := versionBuilder.Build()
	if versionBuildError == nil {
		cobraCommand.AddCommand(versionCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy, flushes the logger, and reports the exit code
// the process should terminate with.
func (application *Application) Execute() (int, error) {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		executionError = fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	if executionError != nil {
		return failureExitCodeConstant, executionError
	}
	return application.exitCode, nil
}

// OutputStore exposes the store receiving output published for correlation bindings.
func (application *Application) OutputStore() correlation.OutputStore {
	return application.outputStore
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() (int, error) {
	return NewApplication().Execute()
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, configurationDirectoryNameConstant))
	}
	return searchPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range engine.DefaultConfigurationValues(engineConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		normalizedLevel, choiceError := logLevelChoiceSet.Normalize(application.logLevelFlagValue)
		if choiceError != nil {
			return choiceError
		}
		application.configuration.Common.LogLevel = normalizedLevel
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		normalizedFormat, choiceError := logFormatChoiceSet.Normalize(application.logFormatFlagValue)
		if choiceError != nil {
			return choiceError
		}
		application.configuration.Common.LogFormat = normalizedFormat
	}

	logger, loggerCreationError := application.createLogger()
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithInvocationIdentifier(updatedContext, uuid.NewString())
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) createLogger() (*zap.Logger, error) {
	logLevel := utils.LogLevel(application.configuration.Common.LogLevel)
	logFormat := utils.LogFormat(application.configuration.Common.LogFormat)
	if application.loggerSink != nil {
		return application.loggerFactory.CreateLoggerForWriter(logLevel, logFormat, application.loggerSink)
	}
	return application.loggerFactory.CreateLogger(logLevel, logFormat)
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	if len(arguments) == 0 {
		return command.Help()
	}

	shellName := arguments[0]
	commandLine := strings.Join(arguments[1:], commandWordSeparatorConstant)
	executionContext := command.Context()
	invocationIdentifier, _ := application.commandContextAccessor.InvocationIdentifier(executionContext)
	configurationFilePath, _ := application.commandContextAccessor.ConfigurationFilePath(executionContext)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldShellNameConstant, shellName),
		zap.Int(logFieldArgumentCountConstant, len(arguments)-1),
		zap.String(logFieldInvocationConstant, invocationIdentifier),
		zap.String(configurationFileFieldConstant, configurationFilePath),
	)

	invocationBindings, bindingsError := application.bindingInputs.build()
	if bindingsError != nil {
		return bindingsError
	}

	shellDescriptor, resolveError := shells.Resolve(shellName)
	if resolveError != nil {
		return fmt.Errorf(shellResolutionErrorTemplateConstant, resolveError)
	}

	scriptEngine, engineError := application.buildEngine(shellDescriptor)
	if engineError != nil {
		return engineError
	}

	outputSink := utils.NewFlushingWriter(command.OutOrStdout())
	errorSink := utils.NewFlushingWriter(command.ErrOrStderr())
	invocation := engine.Invocation{
		Bindings:    invocationBindings,
		OutputSink:  outputSink,
		ErrorSink:   errorSink,
		InputSource: command.InOrStdin(),
	}

	var exitCode int
	var evaluateError error
	if len(arguments) == 1 {
		// A bare shell name reads the whole script from standard input, which the script then consumes.
		invocation.InputSource = nil
		exitCode, evaluateError = scriptEngine.EvaluateReader(executionContext, command.InOrStdin(), invocation)
	} else {
		exitCode, evaluateError = scriptEngine.Evaluate(executionContext, commandLine, invocation)
	}

	application.logger.Debug(
		forwardedOutputMessageConstant,
		zap.String(logFieldInvocationConstant, invocationIdentifier),
		zap.Int64(logFieldForwardedOutputBytesConstant, deliveredBytes(outputSink)),
		zap.Int64(logFieldForwardedErrorBytesConstant, deliveredBytes(errorSink)),
	)

	var failedError execshell.CommandFailedError
	if evaluateError != nil && !errors.As(evaluateError, &failedError) {
		return evaluateError
	}

	application.exitCode = exitCode
	return nil
}

func deliveredBytes(sink io.Writer) int64 {
	if counter, counts := sink.(*utils.FlushingWriter); counts {
		return counter.DeliveredBytes()
	}
	return 0
}

// buildEngine wires a script engine for shellDescriptor from the loaded configuration.
func (application *Application) buildEngine(shellDescriptor shells.ShellDescriptor) (*engine.Engine, error) {
	engineConfiguration := application.configuration.Engine

	outputEncoding, charsetError := charset.Resolve(engineConfiguration.OutputCharset)
	if charsetError != nil {
		return nil, fmt.Errorf(outputCharsetErrorTemplateConstant, charsetError)
	}

	timeout := engineConfiguration.Timeout()
	if application.timeoutFlagValue > 0 {
		timeout = application.timeoutFlagValue
	}

	runner := execshell.NewOSCommandRunner(execshell.OSCommandRunnerConfiguration{
		Timeout:        timeout,
		OutputEncoding: outputEncoding,
	})
	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, runner)
	if executorError != nil {
		return nil, executorError
	}
	if application.humanReadableLoggingEnabled() {
		shellExecutor = shellExecutor.WithObservers(ui.NewConsoleCommandEventLogger(application.logger))
	}

	return engine.NewEngine(engine.Dependencies{
		Logger:      application.logger,
		Shell:       shellDescriptor,
		Executor:    shellExecutor,
		OutputStore: application.outputStore,
	}, engine.Options{PublishLimit: engineConfiguration.StandardOutputLimit})
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
