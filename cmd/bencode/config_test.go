package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigLoadFile(t *testing.T) {
	path := writeFile(t, "bencode.yaml", "max_depth: 8\nformat: yaml\njobs: 2\n")

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	require.Equal(t, 8, cfg.MaxDepth)
	require.Equal(t, "yaml", cfg.Format)
	require.Equal(t, 2, cfg.Jobs)
	// untouched keys keep their defaults
	require.Equal(t, Default().MaxInputSize, cfg.MaxInputSize)
	require.Equal(t, "sha1", cfg.Algo)
	require.NoError(t, cfg.Validate())
}

func TestConfigLoadFileErrors(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := writeFile(t, "bencode.yaml", "max_dept: 8\n")
	require.Error(t, cfg.LoadFile(path))

	empty := writeFile(t, "empty.yaml", "")
	require.NoError(t, cfg.LoadFile(empty))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }},
		{"zero input size", func(c *Config) { c.MaxInputSize = 0 }},
		{"format", func(c *Config) { c.Format = "xml" }},
		{"algo", func(c *Config) { c.Algo = "md5" }},
		{"jobs", func(c *Config) { c.Jobs = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfigFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "bencode.yaml", "max_depth: 8\nformat: yaml\n")

	fs := newFlagSet("decode")
	cf := addConfigFlags(fs)
	fs.String("format", "json", "")
	require.NoError(t, fs.Parse([]string{"--config", path, "--format", "cbor", "in.torrent"}))

	cfg, err := cf.resolve(fs)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.MaxDepth)
	require.Equal(t, "cbor", cfg.Format)
}

func TestConfigFromEnvironment(t *testing.T) {
	path := writeFile(t, "bencode.yaml", "max_depth: 3\n")
	t.Setenv("BENCODE_CONFIG", path)

	fs := newFlagSet("check")
	cf := addConfigFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := cf.resolve(fs)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MaxDepth)
}
