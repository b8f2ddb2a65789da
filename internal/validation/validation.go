package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFSTypeLength is the longest filesystem type name accepted
const MaxFSTypeLength = 64

// fsTypePattern matches kernel filesystem type names such as "ext4", "vfat"
// or "fuse.sshfs"
var fsTypePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._+-]*$`)

// ValidateFSType validates a filesystem type name passed to mount(2)
func ValidateFSType(name string) error {
	if name == "" {
		return fmt.Errorf("filesystem type must not be empty")
	}

	if len(name) > MaxFSTypeLength {
		return fmt.Errorf("filesystem type must be at most %d characters", MaxFSTypeLength)
	}

	if !fsTypePattern.MatchString(name) {
		return fmt.Errorf("filesystem type %q must start with a lowercase letter or digit and contain only lowercase letters, digits, dot, underscore, plus or hyphen", name)
	}

	return nil
}

// ValidateSource validates a mount source. Sources need not be paths
// (e.g. "proc"), so only emptiness and NUL bytes are rejected.
func ValidateSource(source string) error {
	if source == "" {
		return fmt.Errorf("mount source must not be empty")
	}

	if strings.ContainsRune(source, 0) {
		return fmt.Errorf("mount source must not contain NUL bytes")
	}

	return nil
}

// ValidateTarget validates a mount target: an absolute path without NUL
// bytes
func ValidateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("mount target must not be empty")
	}

	if strings.ContainsRune(target, 0) {
		return fmt.Errorf("mount target must not contain NUL bytes")
	}

	if !filepath.IsAbs(target) {
		return fmt.Errorf("mount target %q must be an absolute path", target)
	}

	return nil
}
