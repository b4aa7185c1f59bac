package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Contains(t, info.String(), Version)
	assert.Contains(t, info.FullString(), "chfilter version "+Version)
}

func TestFullStringMarksModified(t *testing.T) {
	info := Info{Version: "1.0.0", GitCommit: "abc123", Modified: true}
	assert.Contains(t, info.FullString(), "Git Commit: abc123 (modified)")
}
