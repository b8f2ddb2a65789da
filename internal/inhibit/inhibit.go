// Package inhibit takes a systemd-logind inhibitor lock so the machine is not
// shut down or suspended while filesystems are mounted.
package inhibit

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	login1Service = "org.freedesktop.login1"
	login1Path    = "/org/freedesktop/login1"
	inhibitMethod = "org.freedesktop.login1.Manager.Inhibit"

	// What is the set of operations blocked by the lock
	What = "shutdown:sleep"
	// Mode makes logind refuse the blocked operations instead of delaying them
	Mode = "block"
)

// Bus is the part of *dbus.Conn used to talk to logind.
type Bus interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	Close() error
}

// ConnectSystemBus connects to the system bus.
func ConnectSystemBus() (Bus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Lock is a held inhibitor lock. logind drops it when the descriptor is
// closed.
type Lock struct {
	file *os.File
}

// Acquire asks logind for a blocking shutdown and sleep inhibitor lock. who
// and why are shown to users by tools such as systemd-inhibit --list.
func Acquire(bus Bus, who, why string) (*Lock, error) {
	obj := bus.Object(login1Service, dbus.ObjectPath(login1Path))

	call := obj.Call(inhibitMethod, 0, What, who, why, Mode)
	if call.Err != nil {
		return nil, fmt.Errorf("inhibit %s: %w", What, call.Err)
	}

	var fd dbus.UnixFD
	if err := call.Store(&fd); err != nil {
		return nil, fmt.Errorf("parse inhibit reply: %w", err)
	}

	return &Lock{file: os.NewFile(uintptr(fd), "logind-inhibit")}, nil
}

// Release drops the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("release inhibitor lock: %w", err)
	}
	return nil
}
