// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns interpreter lifecycle events into short
// messages for CLI users while detailed telemetry continues to flow through
// the structured logger.
package ui
