package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriansa/mountscope/internal/mount"
)

const samplePlan = `
mount_command = "/usr/bin/mount"
inhibit = true

[[mount]]
source = "/dev/sda2"
target = "/target"
options = ["sync"]

[[mount]]
source = "/dev/sda1"
target = "/target/boot/efi"
create_target = true

[[mount]]
source = "proc"
target = "/target/proc"
fstype = "proc"
flags = ["nosuid", "nodev", "noexec"]
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writePlan(t, samplePlan))
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/mount", cfg.MountCommand)
	assert.True(t, cfg.Inhibit)
	require.Len(t, cfg.Mounts, 3)

	assert.Equal(t, Entry{Source: "/dev/sda2", Target: "/target", Options: []string{"sync"}}, cfg.Mounts[0])
	assert.True(t, cfg.Mounts[1].CreateTarget)
	assert.False(t, cfg.Mounts[1].Direct())
	assert.True(t, cfg.Mounts[2].Direct())
	assert.Equal(t, []string{"nosuid", "nodev", "noexec"}, cfg.Mounts[2].Flags)

	require.NoError(t, cfg.Validate())
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Mounts)
	assert.Error(t, cfg.Validate())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writePlan(t, "[[mount]\nsource = "))
	assert.ErrorContains(t, err, "parse plan file")
}

func TestMergeAndDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Merge("", false)
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultMountCommand, cfg.MountCommand)
	assert.False(t, cfg.Inhibit)

	cfg = &Config{MountCommand: "/bin/mount"}
	cfg.Merge("/sbin/mount", true)
	cfg.ApplyDefaults()
	assert.Equal(t, "/sbin/mount", cfg.MountCommand)
	assert.True(t, cfg.Inhibit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr string
	}{
		{"command path", Entry{Source: "/src", Target: "/dst", Options: []string{"bind", "sync"}}, ""},
		{"syscall path", Entry{Source: "tmpfs", Target: "/tmp", FSType: "tmpfs", Flags: []string{"nosuid"}, Data: "size=64m"}, ""},
		{"empty source", Entry{Target: "/dst"}, "source"},
		{"relative target", Entry{Source: "/src", Target: "dst"}, "absolute"},
		{"unknown option", Entry{Source: "/src", Target: "/dst", Options: []string{"ro"}}, "unknown mount option"},
		{"flags without fstype", Entry{Source: "/src", Target: "/dst", Flags: []string{"bind"}}, "require fstype"},
		{"data without fstype", Entry{Source: "/src", Target: "/dst", Data: "size=1m"}, "require fstype"},
		{"options with fstype", Entry{Source: "proc", Target: "/proc", FSType: "proc", Options: []string{"sync"}}, "cannot be combined"},
		{"bad fstype", Entry{Source: "proc", Target: "/proc", FSType: "Proc"}, "filesystem type"},
		{"unknown flag", Entry{Source: "proc", Target: "/proc", FSType: "proc", Flags: []string{"nosync"}}, "unknown mount flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mounts: []Entry{tt.entry}}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, "mount 0")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEntry_MountOptions(t *testing.T) {
	e := Entry{Options: []string{"sync", "bind"}}
	opts, err := e.MountOptions()
	require.NoError(t, err)
	assert.Equal(t, []mount.Option{mount.Synchronize, mount.Bind}, opts)
}
