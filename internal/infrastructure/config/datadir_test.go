package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDataDir_Default(t *testing.T) {
	ResetDataDir()
	defer ResetDataDir()
	t.Setenv(EnvDataDir, "")

	dir := GetDataDir()

	homeDir, err := os.UserHomeDir()
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, ".todoapp"), dir)
}

func TestGetDataDir_EnvOverride(t *testing.T) {
	ResetDataDir()
	defer ResetDataDir()
	t.Setenv(EnvDataDir, "/custom/data/path")

	assert.Equal(t, "/custom/data/path", GetDataDir())
}

func TestGetDataDir_Cached(t *testing.T) {
	ResetDataDir()
	defer ResetDataDir()
	t.Setenv(EnvDataDir, "/first/path")
	assert.Equal(t, "/first/path", GetDataDir())

	// 修改环境变量后应返回缓存值
	t.Setenv(EnvDataDir, "/second/path")
	assert.Equal(t, "/first/path", GetDataDir())
}
