//go:build windows

package process

import (
	"os/exec"
	"syscall"
	"testing"
)

func assertGroupAttr(t *testing.T, cmd *exec.Cmd) {
	t.Helper()
	if cmd.SysProcAttr.CreationFlags&syscall.CREATE_NEW_PROCESS_GROUP == 0 {
		t.Error("CREATE_NEW_PROCESS_GROUP not set")
	}
}
