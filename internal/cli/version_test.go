package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVersionInfo_LdflagsOverride(t *testing.T) {
	original := version
	defer func() { version = original }()

	version = "1.2.3"
	v, _, _ := resolveVersionInfo()
	assert.Equal(t, "1.2.3", v)
}

func TestResolveVersionInfo_DevFallback(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "dev", "unknown", "unknown"
	v, c, d := resolveVersionInfo()

	assert.NotEmpty(t, v)
	// In a test binary, ReadBuildInfo returns test module info.
	t.Logf("resolved: version=%s commit=%s date=%s", v, c, d)
}

func TestPrintVersionInfo(t *testing.T) {
	var buf bytes.Buffer
	printVersionInfo(&buf)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "retailload "))
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}
