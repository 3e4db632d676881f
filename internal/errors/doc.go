// Package errors defines the error kinds surfaced by the runtime.
//
// This package provides structured error types for every failure kind
// spec.md §7 names. All error types support unwrapping and can be checked
// with errors.Is and errors.As.
package errors
