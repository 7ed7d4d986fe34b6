package main

import (
	"bytes"
	"io"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/farbodahm/bencode-go/app"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by all subcommands. Values come from
// Default, then the config file if any, then command line flags.
type Config struct {
	// MaxDepth caps list and dictionary nesting. 0 disables the limit.
	MaxDepth int `yaml:"max_depth"`

	// MaxInputSize is the largest input, in bytes after decompression,
	// that will be read.
	MaxInputSize int64 `yaml:"max_input_size"`

	// Format is the output format of decode: json, yaml or cbor.
	Format string `yaml:"format"`

	// Algo is the digest algorithm: sha1 or blake3.
	Algo string `yaml:"algo"`

	// Jobs is the number of files check validates concurrently.
	Jobs int `yaml:"jobs"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		MaxDepth:     512,
		MaxInputSize: 64 << 20,
		Format:       "json",
		Algo:         "sha1",
		Jobs:         runtime.NumCPU(),
	}
}

// LoadFile merges the YAML file at path into c. Unknown keys are errors.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "cannot read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "cannot parse config %s", path)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return errors.Newf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.MaxInputSize <= 0 {
		return errors.Newf("max_input_size must be positive, got %d", c.MaxInputSize)
	}
	switch c.Format {
	case "json", "yaml", "cbor":
	default:
		return errors.Newf("unknown format %q (want json, yaml or cbor)", c.Format)
	}
	if _, err := app.ParseDigestAlgorithm(c.Algo); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return errors.Newf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

// DecodeOptions returns the decoder options matching c.
func (c *Config) DecodeOptions() []app.DecodeOption {
	return []app.DecodeOption{app.WithMaxDepth(c.MaxDepth)}
}

// configFlags registers the flags every subcommand understands.
type configFlags struct {
	path         string
	maxDepth     int
	maxInputSize int64
}

func addConfigFlags(fs *pflag.FlagSet) *configFlags {
	def := Default()
	f := &configFlags{}
	fs.StringVar(&f.path, "config", "", "YAML config file (default $BENCODE_CONFIG)")
	fs.IntVar(&f.maxDepth, "max-depth", def.MaxDepth, "maximum nesting depth, 0 for unlimited")
	fs.Int64Var(&f.maxInputSize, "max-input-size", def.MaxInputSize, "maximum input size in bytes")
	return f
}

// resolve builds the effective configuration once fs has been parsed.
// Only flags set explicitly override the config file.
func (f *configFlags) resolve(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	path := f.path
	if path == "" {
		path = os.Getenv("BENCODE_CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if fs.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if fs.Changed("max-input-size") {
		cfg.MaxInputSize = f.maxInputSize
	}
	if fs.Changed("format") {
		cfg.Format, _ = fs.GetString("format")
	}
	if fs.Changed("algo") {
		cfg.Algo, _ = fs.GetString("algo")
	}
	if fs.Changed("jobs") {
		cfg.Jobs, _ = fs.GetInt("jobs")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
