package mount

import (
	"fmt"
	"sort"

	"golang.org/x/sys/unix"
)

// Flags for Mounter.MountFS. Any other MS_* bit may be passed as well.
const (
	FlagBind uintptr = unix.MS_BIND
	FlagSync uintptr = unix.MS_SYNCHRONOUS
)

var flagNames = map[string]uintptr{
	"bind":    unix.MS_BIND,
	"rbind":   unix.MS_BIND | unix.MS_REC,
	"sync":    unix.MS_SYNCHRONOUS,
	"rdonly":  unix.MS_RDONLY,
	"ro":      unix.MS_RDONLY,
	"nosuid":  unix.MS_NOSUID,
	"nodev":   unix.MS_NODEV,
	"noexec":  unix.MS_NOEXEC,
	"noatime": unix.MS_NOATIME,
	"rec":     unix.MS_REC,
	"private": unix.MS_PRIVATE,
	"remount": unix.MS_REMOUNT,
}

// ParseFlags ORs together the MS_* bits named in names.
func ParseFlags(names []string) (uintptr, error) {
	var flags uintptr
	for _, name := range names {
		f, ok := flagNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown mount flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}

// FlagNames returns the names accepted by ParseFlags, sorted.
func FlagNames() []string {
	names := make([]string, 0, len(flagNames))
	for name := range flagNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Syscalls is the kernel surface used by mounts.
type Syscalls interface {
	// Mount calls mount(2). An empty data passes no options.
	Mount(source, target, fstype string, flags uintptr, data string) error
	// Unmount calls umount2(2).
	Unmount(target string, flags int) error
}

// unixSyscalls implements Syscalls using Linux syscalls
type unixSyscalls struct{}

func (unixSyscalls) Mount(source, target, fstype string, flags uintptr, data string) error {
	return unix.Mount(source, target, fstype, flags, data)
}

func (unixSyscalls) Unmount(target string, flags int) error {
	return unix.Unmount(target, flags)
}
