// Package util holds small helpers shared by the CLI: input sanitising,
// pointer helpers for partial updates and secret masking for display.
package util
