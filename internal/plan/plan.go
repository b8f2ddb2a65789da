// Package plan mounts the entries of a configured plan in order.
package plan

import (
	"fmt"
	"os"

	"github.com/kriansa/mountscope/internal/config"
	"github.com/kriansa/mountscope/internal/mount"
)

// Apply mounts entries in order and returns the collection owning them. If
// any entry fails, everything already mounted is released, newest first,
// before the error is returned.
func Apply(m *mount.Mounter, entries []config.Entry) (*mount.Mounts, error) {
	ms := &mount.Mounts{}

	for i := range entries {
		e := &entries[i]
		mnt, err := apply(m, e)
		if err != nil {
			ms.Release()
			return nil, fmt.Errorf("mount %s on %s: %w", e.Source, e.Target, err)
		}
		ms.Append(mnt)
	}

	return ms, nil
}

func apply(m *mount.Mounter, e *config.Entry) (*mount.Mount, error) {
	if e.CreateTarget {
		if err := os.MkdirAll(e.Target, 0o755); err != nil {
			return nil, fmt.Errorf("create target: %w", err)
		}
	}

	if e.Direct() {
		flags, err := mount.ParseFlags(e.Flags)
		if err != nil {
			return nil, err
		}
		return m.MountFS(e.Source, e.Target, e.FSType, flags, e.Data)
	}

	opts, err := e.MountOptions()
	if err != nil {
		return nil, err
	}
	return m.Mount(e.Source, e.Target, opts...)
}
