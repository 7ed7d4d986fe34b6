// bencode decodes, encodes and validates bencoded data.
//
// Usage:
//
//	bencode decode [flags] <file|->
//	bencode encode [flags] <file|->
//	bencode check [flags] <file>...
//	bencode digest [flags] <file|->
//	bencode version
//
// Files ending in .zst are decompressed before decoding.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
)

var version = "dev"

// cli bundles the streams and logger shared by all subcommands.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
}

func main() {
	// stdout carries command output, so logs go to stderr.
	logLevel := slog.LevelInfo
	if os.Getenv("BENCODE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	c := &cli{stdin: os.Stdin, stdout: os.Stdout, logger: logger}
	if err := c.run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) run(args []string) error {
	if len(args) < 1 {
		printUsage(c.stdout)
		return errors.New("missing command")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "decode":
		return c.decodeCmd(rest)
	case "encode":
		return c.encodeCmd(rest)
	case "check":
		return c.checkCmd(rest)
	case "digest":
		return c.digestCmd(rest)
	case "version", "--version", "-v":
		fmt.Fprintf(c.stdout, "bencode %s\n", version)
		return nil
	case "help", "--help", "-h":
		printUsage(c.stdout)
		return nil
	}

	printUsage(c.stdout)
	return errors.Newf("unknown command: %s", command)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: bencode <command> [flags] <input>

Commands:
  decode   Print every bencoded value of the input as json, yaml or cbor
  encode   Convert a JSON (or JSONC) document to canonical bencode
  check    Validate one or more files
  digest   Hash the canonical encoding of a value
  version  Print the version

Inputs are file paths or - for stdin. Files ending in .zst are decompressed.

Environment:
  BENCODE_CONFIG  Path to a YAML config file (same as --config)
  BENCODE_DEBUG   Set to enable debug logging
`)
}
