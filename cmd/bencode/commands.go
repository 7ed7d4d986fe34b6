package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/farbodahm/bencode-go/app"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
)

func newFlagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

// singleInput returns the only positional argument of fs.
func singleInput(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", errors.Newf("%s takes exactly one input, got %d", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

func (c *cli) decodeCmd(args []string) error {
	fs := newFlagSet("decode")
	cf := addConfigFlags(fs)
	fs.String("format", Default().Format, "output format: json, yaml or cbor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.resolve(fs)
	if err != nil {
		return err
	}
	path, err := singleInput(fs)
	if err != nil {
		return err
	}

	data, err := readInput(c.stdin, path, cfg.MaxInputSize)
	if err != nil {
		return err
	}
	nodes, err := app.DecodeAll(data, cfg.DecodeOptions()...)
	if err != nil {
		return errors.Wrapf(err, "cannot decode %s", path)
	}
	c.logger.Debug("decoded input", "path", path, "bytes", len(data), "values", len(nodes))

	return writeNodes(c.stdout, nodes, cfg.Format)
}

func (c *cli) encodeCmd(args []string) error {
	fs := newFlagSet("encode")
	cf := addConfigFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.resolve(fs)
	if err != nil {
		return err
	}
	path, err := singleInput(fs)
	if err != nil {
		return err
	}

	data, err := readInput(c.stdin, path, cfg.MaxInputSize)
	if err != nil {
		return err
	}
	node, err := app.FromJSON(jsonc.ToJSON(data))
	if err != nil {
		return errors.Wrapf(err, "cannot convert %s", path)
	}

	encoded := app.EncodeBNode(node)
	c.logger.Debug("encoded input", "path", path, "bytes", len(encoded))
	_, err = c.stdout.Write(encoded)
	return err
}

func (c *cli) checkCmd(args []string) error {
	fs := newFlagSet("check")
	cf := addConfigFlags(fs)
	fs.Int("jobs", Default().Jobs, "number of files checked concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.resolve(fs)
	if err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("check needs at least one file")
	}
	stdin := 0
	for _, path := range paths {
		if path == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("check reads stdin (-) at most once")
	}

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(cfg.Jobs)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := c.checkFile(path, cfg); err != nil {
				failed.Add(1)
				c.logger.Error("invalid", "path", path, "offset", app.ErrorOffset(err), "error", err)
				return nil
			}
			return nil
		})
	}
	// Goroutines never return errors; failures are counted instead so
	// every file gets checked.
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return errors.Newf("%d of %d files failed", n, len(paths))
	}
	return nil
}

func (c *cli) checkFile(path string, cfg *Config) error {
	data, err := readInput(c.stdin, path, cfg.MaxInputSize)
	if err != nil {
		return err
	}
	nodes, err := app.DecodeAll(data, cfg.DecodeOptions()...)
	if err != nil {
		return err
	}
	c.logger.Info("ok", "path", path, "bytes", len(data), "values", len(nodes))
	return nil
}

func (c *cli) digestCmd(args []string) error {
	fs := newFlagSet("digest")
	cf := addConfigFlags(fs)
	fs.String("algo", Default().Algo, "hash algorithm: sha1 or blake3")
	key := fs.String("key", "", "dot separated dictionary path of the value to hash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.resolve(fs)
	if err != nil {
		return err
	}
	path, err := singleInput(fs)
	if err != nil {
		return err
	}

	data, err := readInput(c.stdin, path, cfg.MaxInputSize)
	if err != nil {
		return err
	}
	// The whole input must be valid even though only the first value is
	// hashed.
	nodes, err := app.DecodeAll(data, cfg.DecodeOptions()...)
	if err != nil {
		return errors.Wrapf(err, "cannot decode %s", path)
	}
	node := nodes[0]

	if *key != "" {
		node, err = app.Lookup(node, strings.Split(*key, ".")...)
		if err != nil {
			return err
		}
	}

	algo, err := app.ParseDigestAlgorithm(cfg.Algo)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, hex.EncodeToString(app.Digest(node, algo)))
	return err
}
