package cli

import _ "embed"

// defaultConfigurationDocument seeds every configuration key before user files and environment overrides apply.
//
//go:embed default_config.yaml
var defaultConfigurationDocument string

// EmbeddedDefaultConfiguration returns a fresh copy of the embedded defaults and their configuration type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return []byte(defaultConfigurationDocument), configurationTypeConstant
}
