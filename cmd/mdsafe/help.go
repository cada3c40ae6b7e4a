package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsafe <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Sanitize markdown files and typeset them to PDF")
	fmt.Fprintln(w, "  clean      Sanitize a markdown file without typesetting")
	fmt.Fprintln(w, "  profiles   List symbol profiles or show one profile's mappings")
	fmt.Fprintln(w, "  doctor     Check typesetters, Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdsafe help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsafe convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sanitize markdown files and typeset them to PDF, trying each strategy")
	fmt.Fprintln(w, "of the chain in order until one produces a valid PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --keep-markdown       Also write the sanitized <name>.safe.md")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sanitizing:")
	fmt.Fprintln(w, "  -p, --profile <s>         Symbol profile: plain (default), latex")
	fmt.Fprintln(w, "      --decorate            Divider before every ### heading (latex only)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Typesetting:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-strategy timeout (default 2m plain, 3m latex)")
	fmt.Fprintln(w, "  -f, --fallback <s,...>    Append fallbacks: browser (headless Chrome), text")
	fmt.Fprintln(w, "      --no-verify           Accept any non-empty output without PDF validation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --doc-title <s>       Document title")
	fmt.Fprintln(w, "      --doc-subtitle <s>    Document subtitle")
	fmt.Fprintln(w, "      --doc-author <s>      Document author")
	fmt.Fprintln(w, "      --doc-version <s>     Version string")
	fmt.Fprintln(w, "      --doc-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets: iso, european, us, long, month")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Rev] YYYY")
	fmt.Fprintln(w, "      --doc-class <s>       LaTeX document class")
	fmt.Fprintln(w, "      --geometry <s>        Page geometry, e.g. margin=1in")
	fmt.Fprintln(w, "      --font-size <s>       Base font size, e.g. 11pt")
	fmt.Fprintln(w, "      --toc                 Table of contents")
	fmt.Fprintln(w, "      --number-sections     Numbered headings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show every strategy attempt")
}

// printCleanUsage prints usage for the clean command.
func printCleanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsafe clean <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sanitize a markdown file and print the result. Use - to read stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -p, --profile <s>         Symbol profile: plain (default), latex")
	fmt.Fprintln(w, "  -c, --config <name>       Take the profile from a config file")
	fmt.Fprintln(w, "  -o, --output <path>       Write to a file instead of stdout")
	fmt.Fprintln(w, "      --trace               Print the text after every stage to stderr")
}

// printProfilesUsage prints usage for the profiles command.
func printProfilesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsafe profiles [name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without a name, list the symbol profiles. With a name, print every")
	fmt.Fprintln(w, "symbol of that profile and its replacement.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsafe doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that pandoc, the LaTeX engines and Chrome can be found, and that")
	fmt.Fprintln(w, "the temp directory is writable. Exits 1 when conversion cannot work.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "clean":
		printCleanUsage(env.Stdout)
	case "profiles":
		printProfilesUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdsafe version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdsafe help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
