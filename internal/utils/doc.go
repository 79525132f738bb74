// Package utils exposes reusable helpers consumed by the CLI and the engine.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory, the
// CommandContextAccessor for context-scoped values, and FlushingWriter for
// forwarding output to buffered sinks.
package utils
