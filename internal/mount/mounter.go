package mount

import (
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"k8s.io/utils/exec"
)

// DefaultCommand is the mount utility run by the command path.
const DefaultCommand = "mount"

// Mounter creates mounts. The zero value is not usable; use NewMounter.
type Mounter struct {
	command string
	exec    exec.Interface
	sys     Syscalls
	log     *slog.Logger
}

// MounterOption configures a Mounter.
type MounterOption func(*Mounter)

// WithCommand sets the mount utility used by Mount.
func WithCommand(command string) MounterOption {
	return func(m *Mounter) { m.command = command }
}

// WithExec sets how the mount utility is run.
func WithExec(e exec.Interface) MounterOption {
	return func(m *Mounter) { m.exec = e }
}

// WithSyscalls replaces the mount(2)/umount2(2) implementation.
func WithSyscalls(sys Syscalls) MounterOption {
	return func(m *Mounter) { m.sys = sys }
}

// WithLogger sets the logger for the Mounter and every Mount it creates.
func WithLogger(log *slog.Logger) MounterOption {
	return func(m *Mounter) { m.log = log }
}

// NewMounter creates a Mounter that runs DefaultCommand and calls the kernel
// directly unless configured otherwise.
func NewMounter(opts ...MounterOption) *Mounter {
	m := &Mounter{
		command: DefaultCommand,
		exec:    exec.New(),
		sys:     unixSyscalls{},
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount runs the mount utility to mount source on dest.
//
// Both paths are canonicalized before anything is run, and the resolved paths
// are what the returned Mount records. Bind is passed as --bind; every other
// option is collected into a single sorted, deduplicated -o argument.
func (m *Mounter) Mount(source, dest string, options ...Option) (*Mount, error) {
	src, err := resolve(source)
	if err != nil {
		return nil, err
	}
	dst, err := resolve(dest)
	if err != nil {
		return nil, err
	}

	args := commandArgs(options, src, dst)
	m.log.Debug("running mount command", "command", m.command, "args", args)

	out, err := m.exec.Command(m.command, args...).CombinedOutput()
	if err != nil {
		return nil, newCommandError(append([]string{m.command}, args...), out, err)
	}

	m.log.Debug("mounted successfully", "source", src, "target", dst)
	return m.newMount(src, dst), nil
}

// MountFS calls mount(2) once with the given arguments. The paths are used
// as given; this is how pseudo-filesystems such as proc, whose source is not
// a path, are mounted. An empty data passes no filesystem options.
func (m *Mounter) MountFS(source, target, fstype string, flags uintptr, data string) (*Mount, error) {
	m.log.Debug("mounting filesystem", "source", source, "target", target, "type", fstype,
		"flags", flags, "data", data)

	if err := m.sys.Mount(source, target, fstype, flags, data); err != nil {
		return nil, &SyscallError{Op: "mount", Path: target, Err: err}
	}

	m.log.Debug("mounted successfully", "source", source, "target", target)
	return m.newMount(source, target), nil
}

func (m *Mounter) newMount(source, dest string) *Mount {
	return &Mount{
		source:  source,
		dest:    dest,
		mounted: true,
		sys:     m.sys,
		log:     m.log,
	}
}

// resolve returns the absolute, symlink-free form of an existing path.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	return resolved, nil
}

// commandArgs builds [--bind] [-o opt,...] source dest.
func commandArgs(options []Option, source, dest string) []string {
	var (
		args  []string
		named []string
		bind  bool
	)
	for _, opt := range options {
		if opt == Bind {
			bind = true
			continue
		}
		named = append(named, opt.String())
	}

	if bind {
		args = append(args, "--bind")
	}

	slices.Sort(named)
	named = slices.Compact(named)
	if len(named) > 0 {
		args = append(args, "-o", strings.Join(named, ","))
	}

	return append(args, source, dest)
}

func newCommandError(args []string, out []byte, err error) *CommandError {
	status := -1
	var exitErr exec.ExitError
	if errors.As(err, &exitErr) {
		status = exitErr.ExitStatus()
	}
	return &CommandError{Args: args, ExitStatus: status, Output: out, Err: err}
}
