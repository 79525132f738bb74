package engine

import (
	"time"

	"github.com/temirov/shellengine/internal/execshell"
)

const (
	configurationShellKeyConstant          = "shell"
	configurationOutputCharsetKeyConstant  = "output_charset"
	configurationTimeoutKeyConstant        = "timeout_ms"
	configurationStandardOutputKeyConstant = "stdout_limit"
	configurationKeySeparatorConstant      = "."

	// DefaultTimeoutMilliseconds bounds a single script run.
	DefaultTimeoutMilliseconds = 7200000
	// DefaultPublishLimit caps the characters of standard output published for correlation keys.
	DefaultPublishLimit = 65536
)

// Configuration holds the tunables read once at process start.
type Configuration struct {
	Shell               string `mapstructure:"shell"`
	OutputCharset       string `mapstructure:"output_charset"`
	TimeoutMilliseconds int    `mapstructure:"timeout_ms"`
	StandardOutputLimit int    `mapstructure:"stdout_limit"`
}

// DefaultConfiguration returns the tunables used when nothing is configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		TimeoutMilliseconds: DefaultTimeoutMilliseconds,
		StandardOutputLimit: DefaultPublishLimit,
	}
}

// DefaultConfigurationValues exposes the defaults keyed for the configuration loader under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	keyPrefix := ""
	if len(prefix) > 0 {
		keyPrefix = prefix + configurationKeySeparatorConstant
	}
	return map[string]any{
		keyPrefix + configurationShellKeyConstant:          defaults.Shell,
		keyPrefix + configurationOutputCharsetKeyConstant:  defaults.OutputCharset,
		keyPrefix + configurationTimeoutKeyConstant:        defaults.TimeoutMilliseconds,
		keyPrefix + configurationStandardOutputKeyConstant: defaults.StandardOutputLimit,
	}
}

// Timeout converts the configured milliseconds into a duration, falling back to the default for non-positive values.
func (configuration Configuration) Timeout() time.Duration {
	if configuration.TimeoutMilliseconds <= 0 {
		return execshell.DefaultTimeout
	}
	return time.Duration(configuration.TimeoutMilliseconds) * time.Millisecond
}
