package mount

// Mounts owns mounts in creation order. The zero value is ready to use.
//
// Parents must be appended before their children. Once appended, a Mount
// belongs to the collection and should not be used on its own.
type Mounts struct {
	mounts []*Mount
}

// Append takes ownership of m. A nil m is ignored.
func (ms *Mounts) Append(m *Mount) {
	if m == nil {
		return
	}
	ms.mounts = append(ms.mounts, m)
}

// Len returns the number of owned mounts.
func (ms *Mounts) Len() int {
	return len(ms.mounts)
}

// Release releases every owned mount, most recently appended first, and
// empties the collection. Failures are not collected.
func (ms *Mounts) Release() {
	for i := len(ms.mounts) - 1; i >= 0; i-- {
		ms.mounts[i].Release()
		ms.mounts[i] = nil
	}
	ms.mounts = nil
}
