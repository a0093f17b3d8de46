package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the cargo list editor in the browser")
	fmt.Fprintln(w, "  export     Export the cargo list as PDF, PNG or HTML")
	fmt.Fprintln(w, "  print      Write the printable page")
	fmt.Fprintln(w, "  import     Fill the table from a photo of a paper list")
	fmt.Fprintln(w, "  show       Print the stored cargo list")
	fmt.Fprintln(w, "  reset      Restore all content and settings to defaults")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cargolist help <command>' for details on a specific command.")
}

// printCommonUsage prints flags shared by every state command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Storage:")
	fmt.Fprintln(w, "      --storage <s>         Driver: sqlite, redis, memory")
	fmt.Fprintln(w, "      --storage-path <p>    SQLite database file")
	fmt.Fprintln(w, "      --redis-addr <a>      Redis host:port")
	fmt.Fprintln(w, "      --key-prefix <s>      Prefix for every stored key")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      text, json")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the editor. Click any text to edit it; changes are saved on blur.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export and import timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Export browsers (default 1, 0 = from CPU count)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist export [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export the stored cargo list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -f, --format <s>          pdf (default), png, html")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (fs sink)")
	fmt.Fprintln(w, "      --sink <s>            fs (default) or s3")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --fonts-url <url>     Font stylesheet (\"none\" disables)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPrintUsage prints usage for the print command.
func printPrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist print [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the printable page (static text, print rules) as HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <file>       Output file (default stdout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printImportUsage prints usage for the import command.
func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist import <image> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replace the table with the items read from a photo of a paper list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extraction:")
	fmt.Fprintln(w, "      --provider <s>        gemini (default), anthropic, openai")
	fmt.Fprintln(w, "      --model <s>           Model name (default: provider default)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Extraction timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printResetUsage prints usage for the reset command.
func printResetUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist reset --yes [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Restore all content and settings, the item list included, to defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -y, --yes                 Confirm the reset")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printShowUsage prints usage for the show command.
func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cargolist show [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the stored cargo list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -f, --format <s>          table (default) or yaml")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "print":
		printPrintUsage(env.Stdout)
	case "import":
		printImportUsage(env.Stdout)
	case "reset":
		printResetUsage(env.Stdout)
	case "show":
		printShowUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: cargolist doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, extraction keys and writable directories.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cargolist version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cargolist help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
