package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panpilkarz/beamer/pkg/version"
)

func TestShort(t *testing.T) {
	assert.Contains(t, version.Short(), version.Version)
	assert.Contains(t, version.Short(), version.GitCommit)
}

func TestInfo(t *testing.T) {
	info := version.Info()
	assert.Contains(t, info, version.Version)
	assert.Contains(t, info, version.GitCommit)
	assert.Contains(t, info, version.BuildTime)
	assert.Contains(t, info, runtime.Version())
}
