package mount

import (
	"testing"

	"k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
)

type syscallCall struct {
	op     string
	source string
	target string
	fstype string
	flags  uintptr
	data   string
	uflags int
}

// fakeSyscalls records every call. Unmount results are taken from
// unmountErrs in order, nil once exhausted.
type fakeSyscalls struct {
	calls       []syscallCall
	mountErr    error
	unmountErrs []error
}

func (f *fakeSyscalls) Mount(source, target, fstype string, flags uintptr, data string) error {
	f.calls = append(f.calls, syscallCall{op: "mount", source: source, target: target, fstype: fstype, flags: flags, data: data})
	return f.mountErr
}

func (f *fakeSyscalls) Unmount(target string, flags int) error {
	f.calls = append(f.calls, syscallCall{op: "umount", target: target, uflags: flags})
	if len(f.unmountErrs) == 0 {
		return nil
	}
	err := f.unmountErrs[0]
	f.unmountErrs = f.unmountErrs[1:]
	return err
}

func (f *fakeSyscalls) unmounted() []string {
	var targets []string
	for _, c := range f.calls {
		if c.op == "umount" {
			targets = append(targets, c.target)
		}
	}
	return targets
}

// fakeCommands returns a FakeExec expecting one mount invocation per error in
// results, and the FakeCmds that record each invocation.
func fakeCommands(t *testing.T, results ...error) (*testingexec.FakeExec, []*testingexec.FakeCmd) {
	t.Helper()

	fexec := &testingexec.FakeExec{}
	cmds := make([]*testingexec.FakeCmd, 0, len(results))
	for _, result := range results {
		fcmd := &testingexec.FakeCmd{
			CombinedOutputScript: []testingexec.FakeAction{
				func() ([]byte, []byte, error) { return nil, nil, result },
			},
		}
		cmds = append(cmds, fcmd)
		fexec.CommandScript = append(fexec.CommandScript, func(cmd string, args ...string) exec.Cmd {
			return testingexec.InitFakeCmd(fcmd, cmd, args...)
		})
	}
	return fexec, cmds
}
