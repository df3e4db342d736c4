// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context for the CLI layer.
// Resolver errors are wrapped in ActionableError so failures reach the task
// wrapper's error stream with the operation that failed, the input involved,
// and suggestions for fixing it.
package issue
