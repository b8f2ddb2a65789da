package mount

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// PathResolutionError is returned when a command-path source or destination
// cannot be canonicalized. Nothing has been mounted when it is returned.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("resolve path %s: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error { return e.Err }

// CommandError is returned when the external mount utility fails.
// ExitStatus is -1 when the utility could not be started or did not exit
// normally.
type CommandError struct {
	Args       []string
	ExitStatus int
	Output     []byte
	Err        error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += fmt.Sprintf(" (output: %q)", out)
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// SyscallError is returned when mount(2) or umount2(2) fails. Err carries the
// errno.
type SyscallError struct {
	Op   string
	Path string
	Err  error
}

func (e *SyscallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SyscallError) Unwrap() error { return e.Err }

// Errno returns the error code of the failed call, or 0 if Err is not an
// errno.
func (e *SyscallError) Errno() unix.Errno {
	var errno unix.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}
