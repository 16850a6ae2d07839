// Package errors provides the classified error primitives used across navbuilder.
//
// Errors carry a category (config, validation, filesystem, ...), a severity and
// structured context. The CLI adapter turns them into exit codes and log lines.
//
// Example usage:
//
//	err := errors.ValidationError("navigation is invalid").
//		WithContext("config", path).
//		WithContext("problems", len(problems)).
//		WithCause(verr).
//		Build()
package errors
