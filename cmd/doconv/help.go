package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doconv [flags] <file> <input_format> <output_format>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a document between formats by chaining conversion plugins.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file             Document to convert")
	fmt.Fprintln(w, "  input_format     Format of file (e.g. md)")
	fmt.Fprintln(w, "  output_format    Format to produce (e.g. pdf)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --out-file <path>     Output file (default: <name>.<output_format> in the current directory)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and error details")
	fmt.Fprintln(w, "      --list                List plugins and their conversions")
	fmt.Fprintln(w, "      --disable <names>     Skip plugins (comma-separated, repeatable)")
	fmt.Fprintln(w, "      --keep-on-failure     Keep intermediate files when a step fails")
	fmt.Fprintln(w, "      --version             Print version and exit")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  doconv notes.md md pdf")
	fmt.Fprintln(w, "  doconv -o out/data.csv book.xlsx xlsx csv")
	fmt.Fprintln(w, "  doconv --disable chrome,pandoc page.md md txt")
}
