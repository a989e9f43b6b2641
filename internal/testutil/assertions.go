package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that a log line containing msg was written, and that
// the same line carries every key=value pair in attrs (text handler format).
func AssertLogged(t *testing.T, logOutput, msg string, attrs ...string) {
	t.Helper()

	for _, line := range strings.Split(logOutput, "\n") {
		if !strings.Contains(line, msg) {
			continue
		}
		matched := true
		for _, a := range attrs {
			if !strings.Contains(line, a) {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	require.Failf(t, "log line not found", "expected a line with %q and attrs %v in:\n%s", msg, attrs, logOutput)
}
