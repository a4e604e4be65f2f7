//go:build !windows

package sched

import "golang.org/x/sys/unix"

// Exit terminates the process immediately with code, the unix half of
// spec.md 6.5's os.exit passthrough: a strand calling os.exit must stop
// every other strand too, which a plain `os.Exit` already does (it skips
// deferred calls process-wide), but `unix.Exit` is used here instead of
// the stdlib wrapper since it bypasses the Go runtime's exit-hook
// machinery entirely and matches exactly what a compiled IR module's
// `patch_seq_os_exit` would call through libc on this platform.
func Exit(code int) {
	unix.Exit(code)
}
