// Package errors provides the classified error primitives used across resourcescan.
//
// Errors carry a category (what failed), a severity (how bad it is) and a small
// context map. The CLI adapter turns them into exit codes and stderr messages.
//
//	err := errors.FileSystemError("read input").
//		WithCause(ioErr).
//		WithContext("path", path).
//		Build()
package errors
