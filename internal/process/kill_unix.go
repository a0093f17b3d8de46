//go:build !windows

// Package process terminates the headless browser and its helper processes.
package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid. Errors are ignored;
// the launcher's own Kill runs afterwards.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
