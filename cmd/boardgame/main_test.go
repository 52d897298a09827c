package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfTestCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"selftest", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--driver", "sim", "--pins", "2,3,4", "--tick-ms", "1", "--step-ms", "1",
	})
	require.NoError(t, cmd.Execute())
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: plain\npins: [5, 6]\ntick_ms: 20\n"), 0644))

	cmd := newRootCmd()
	f := &flags{}
	sub, _, err := cmd.Find([]string{"selftest"})
	require.NoError(t, err)
	require.NoError(t, sub.ParseFlags([]string{"--config", path, "--pins", "7,8,9"}))

	f.configPath = path
	f.pins = []int{7, 8, 9}
	cfg, err := loadConfig(sub, f)
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Variant)
	assert.Equal(t, []int{7, 8, 9}, cfg.Pins)
	assert.Equal(t, 20, cfg.TickMs)
}

func TestUnknownSelfTestKind(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"selftest", "--kind", "plane_z", "--driver", "sim"})
	assert.Error(t, cmd.Execute())
}
