// Command huffpack compresses and decompresses files with Huffman coding.
//
// Usage:
//
//	huffpack encode <input-file> [-o <output-file>] [-v]
//	huffpack decode <input-file> [-o <output-file>] [-v]
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yannvanhalewyn/huffpack"
)

type options struct {
	command string
	input   string
	output  string
	verbose bool
	help    bool
}

func parseArgs(args []string) (options, error) {
	var opts options
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "-o" || arg == "--output":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("%s requires a file argument", arg)
			}
			i++
			opts.output = args[i]
		case strings.HasPrefix(arg, "-"):
			return options{}, fmt.Errorf("unknown option %s", arg)
		default:
			positional = append(positional, arg)
		}
	}
	if opts.help {
		return opts, nil
	}

	if len(positional) != 2 {
		return options{}, fmt.Errorf("expected <command> <input-file>, got %d arguments", len(positional))
	}
	opts.command = positional[0]
	opts.input = positional[1]
	if opts.output == "" {
		opts.output = defaultOutput(opts.command, opts.input)
	}
	return opts, nil
}

func defaultOutput(command, input string) string {
	if command == "decode" {
		return input + ".decoded"
	}
	return input + ".encoded"
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage: %s <command> <input-file> [options]\n", name)
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  encode    Encode a file using Huffman compression")
	fmt.Fprintln(w, "  decode    Decode a Huffman-encoded file")
	fmt.Fprintln(w, "\nOptions:")
	fmt.Fprintln(w, "  -o, --output FILE    Output file (default: <input>.encoded/.decoded)")
	fmt.Fprintln(w, "  -h, --help           Show this help message")
	fmt.Fprintln(w, "  -v, --verbose        Print size and checksum statistics")
	fmt.Fprintln(w, "\nExamples:")
	fmt.Fprintf(w, "  %s encode notes.txt\n", name)
	fmt.Fprintf(w, "  %s encode notes.txt -o notes.huf\n", name)
	fmt.Fprintf(w, "  %s decode notes.txt.encoded -o restored.txt\n", name)
}

func run(opts options) error {
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", opts.input, err)
	}

	var out []byte
	var container *huffpack.Container
	switch opts.command {
	case "encode":
		fmt.Printf("Processing %s\n", opts.input)
		container, err = huffpack.Compress(data)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		buf.Grow(container.SpaceUsed())
		if _, err := container.WriteTo(&buf); err != nil {
			return err
		}
		out = buf.Bytes()
	case "decode":
		container = new(huffpack.Container)
		if _, err := container.ReadFrom(bytes.NewReader(data)); err != nil {
			return err
		}
		out, err = container.Decompress()
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q", opts.command)
	}

	if err := writeOutput(opts.output, out); err != nil {
		return err
	}

	if opts.verbose {
		printStats(opts, container, data, out)
	}
	return nil
}

// writeOutput stages the result in a temporary file beside the destination
// and renames it into place, so a failed run leaves no partial output and
// never touches whatever already sits at the destination path.
func writeOutput(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not stage output for %s: %w", path, err)
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func printStats(opts options, c *huffpack.Container, in, out []byte) {
	p := message.NewPrinter(language.English)
	p.Printf("Input:  %d bytes (xxh64 %016x)\n", len(in), xxhash.Sum64(in))
	p.Printf("Output: %d bytes (xxh64 %016x)\n", len(out), xxhash.Sum64(out))
	p.Printf("Table:  %d distinct symbols, %d padding bits\n",
		c.Frequencies.Distinct(), c.Padding)
	if opts.command == "encode" {
		p.Printf("Ratio:  %.2fx\n", float64(len(in))/float64(len(out)))
	}
	fmt.Printf("Wrote %s\n", opts.output)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage(os.Stdout)
		return
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if opts.help {
		printUsage(os.Stdout)
		return
	}

	switch opts.command {
	case "encode", "decode":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %s\n", opts.command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
