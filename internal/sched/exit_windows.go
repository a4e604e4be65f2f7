//go:build windows

package sched

import "golang.org/x/sys/windows"

// Exit is exit_unix.go's Windows counterpart, using ExitProcess rather
// than unix.Exit for the same immediate, hook-free process termination.
func Exit(code int) {
	windows.ExitProcess(uint32(code))
}
