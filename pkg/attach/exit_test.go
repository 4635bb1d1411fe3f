package attach

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(out *bytes.Buffer) (*Reporter, *int) {
	r := NewReporter(out)
	code := -1
	r.exit = func(c int) { code = c }
	return r, &code
}

func TestReporterExitPlainMessage(t *testing.T) {
	var out bytes.Buffer
	r, code := newTestReporter(&out)

	r.Exit("", "detached with signal: 1", 0)

	assert.Equal(t, "detached with signal: 1\n", out.String())
	require.NotNil(t, code)
	assert.Equal(t, 1, *code)
}

func TestReporterExitErrnoAnnotated(t *testing.T) {
	var out bytes.Buffer
	r, _ := newTestReporter(&out)

	r.Exit(errnoCategory, "connect failed", 2)

	assert.Equal(t, "connect failed (errno=2)\n", out.String())
}

func TestReporterExitIsSingleShot(t *testing.T) {
	var out bytes.Buffer
	r, code := newTestReporter(&out)

	r.Exit("", "first", 0)
	r.Exit("", "second", 0)
	r.Exit(errnoCategory, "third", 9)

	assert.Equal(t, "first\n", out.String())
	assert.Equal(t, 1, *code)
}
