package process

// Notes:
// - Real kill behavior is covered by the export integration tests; unit tests
//   only check that bogus pids are harmless. PID 0 would target our own group
//   without the guard.

import "testing"

func TestKillProcessGroup_IgnoresBogusPIDs(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1, 999999999} {
		KillProcessGroup(pid)
	}
}
