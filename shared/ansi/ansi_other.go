//go:build !windows

// Package ansi prepares the console for ANSI escape sequences.
package ansi

// EnableANSI is a no-op on non-Windows; ANSI escape sequences are supported by default.
func EnableANSI() {
}
