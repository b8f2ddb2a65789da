// Package mount creates and tracks mount points and guarantees they are
// released.
//
// A Mount is created either by running the external mount utility
// (Mounter.Mount) or by calling mount(2) directly (Mounter.MountFS). Both
// return a Mount that owes exactly one unmount. Unmount surfaces failures to
// the caller; Release is the best-effort teardown meant for defer and never
// reports anything.
//
// Mounts owns an ordered set of Mount values and releases them newest first,
// so a child mount appended after its parent is always detached before it:
//
//	var ms mount.Mounts
//	defer ms.Release()
//
//	root, err := m.Mount("/dev/sda2", "/target")
//	if err != nil {
//		return err
//	}
//	ms.Append(root)
//
//	proc, err := m.MountFS("proc", "/target/proc", "proc", 0, "")
//	if err != nil {
//		return err
//	}
//	ms.Append(proc)
//
// Nothing here is safe for concurrent use.
package mount

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// Option is a mount capability requested on the command path.
type Option int

const (
	// Bind creates a bind mount.
	Bind Option = iota
	// Synchronize forces synchronous writes.
	Synchronize
)

// String returns the name used for the option on the mount command line and
// in plan files.
func (o Option) String() string {
	switch o {
	case Bind:
		return "bind"
	case Synchronize:
		return "sync"
	default:
		return fmt.Sprintf("Option(%d)", int(o))
	}
}

// ParseOption is the inverse of Option.String.
func ParseOption(name string) (Option, error) {
	switch name {
	case "bind":
		return Bind, nil
	case "sync":
		return Synchronize, nil
	default:
		return 0, fmt.Errorf("unknown mount option %q", name)
	}
}

// Mount is a single mount point created by a Mounter.
type Mount struct {
	source  string
	dest    string
	mounted bool

	sys Syscalls
	log *slog.Logger
}

// Source returns the mounted source. Command-path mounts hold the resolved
// path, syscall-path mounts the path given by the caller.
func (m *Mount) Source() string { return m.source }

// Dest returns the mount point.
func (m *Mount) Dest() string { return m.dest }

// Mounted reports whether an unmount is still owed.
func (m *Mount) Mounted() bool { return m.mounted }

// Unmount detaches the mount point. With lazy set the mount is removed from
// the namespace at once and the filesystem is released when it is no longer
// busy; otherwise the call fails with EBUSY while the target is in use.
//
// Unmounting a mount that has already been released succeeds without touching
// the system. On failure the mount is still considered mounted.
func (m *Mount) Unmount(lazy bool) error {
	if !m.mounted {
		return nil
	}

	flags := 0
	if lazy {
		flags = unix.MNT_DETACH
	}

	m.log.Debug("unmounting", "target", m.dest, "lazy", lazy)

	if err := m.sys.Unmount(m.dest, flags); err != nil {
		return &SyscallError{Op: "umount2", Path: m.dest, Err: err}
	}

	m.mounted = false
	return nil
}

// Release lazily unmounts and discards any failure. It is meant to run on
// every exit path, including while an earlier error is being returned.
func (m *Mount) Release() {
	if err := m.Unmount(true); err != nil {
		m.log.Debug("release failed", "target", m.dest, "error", err)
	}
}
