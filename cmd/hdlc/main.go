// hdlc compiles a display markup source file into the binary format
// consumed by the display runtime, or into a C source fragment carrying
// the same bytes as a byte-initialized array.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osmakari/hdlc/hdl/encode"
	"github.com/osmakari/hdlc/hdl/parse"
)

const usageText = `HDLC - HDL Compiler
Usage:
	hdlc [options] <file>
Options:
	-h          Print this help
	-o <file>   Output file path
	-f <format> Force output format: "bin" (binary file) or "c" (C source file)
	-c          Comment the output file
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	help := flag.Bool("h", false, "print this help")
	outPath := flag.String("o", "", "output file path")
	format := flag.String("f", "", `force output format: "bin" or "c"`)
	comment := flag.Bool("c", false, "comment the output file")
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		return nil
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return fmt.Errorf("hdlc: expected an input file")
	}
	if len(args) > 1 {
		return fmt.Errorf("hdlc: expects only a single input file")
	}
	inputPath := args[0]

	outFormat, err := resolveFormat(*format, *outPath)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("hdlc: failed to open %q: %v", inputPath, err)
	}

	doc, warnings, err := parse.Parse(string(src), filepath.Dir(inputPath))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "hdlc: warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("hdlc: parse failed: %v", err)
	}

	result, err := encode.Compile(doc, len(src))
	if err != nil {
		return fmt.Errorf("hdlc: compile failed: %v", err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "hdlc: warning: %s\n", w)
	}
	fmt.Fprintf(os.Stderr, "Original: %dB, Compiled: %dB\n", result.OriginalSize, result.CompiledSize)

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "hdlc: output file not set")
		return nil
	}
	if outFormat == "" {
		return fmt.Errorf("hdlc: unknown output file format, pass -f or use a .bin/.c extension")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("hdlc: could not open %q for writing: %v", *outPath, err)
	}
	defer out.Close()

	if outFormat == "bin" {
		_, err = out.Write(result.Data)
		return err
	}
	text, err := encode.DumpC(result.Data, encode.DumpOptions{
		Commented:    *comment,
		OriginalSize: result.OriginalSize,
	})
	if err != nil {
		return fmt.Errorf("hdlc: failed to render C source: %v", err)
	}
	_, err = out.WriteString(text)
	return err
}

// resolveFormat decides the output format: an explicit -f flag always wins;
// otherwise it is sniffed from the output path's extension (".bin" / ".c").
// Returns "" when neither source decides it.
func resolveFormat(forced, outPath string) (string, error) {
	if forced != "" {
		if forced != "bin" && forced != "c" {
			return "", fmt.Errorf("hdlc: unknown output format %q", forced)
		}
		return forced, nil
	}
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".bin":
		return "bin", nil
	case ".c":
		return "c", nil
	default:
		return "", nil
	}
}
