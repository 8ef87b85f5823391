package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the editor and viewer web application")
	fmt.Fprintln(w, "  render     Render a markdown file to HTML")
	fmt.Fprintln(w, "  share      Print the share URL for a markdown file")
	fmt.Fprintln(w, "  decode     Print the document carried by a share token or URL")
	fmt.Fprintln(w, "  doctor     Check config, assets and Chrome")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdpages help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (env MDPAGES_CONFIG)")
	fmt.Fprintln(w, "  -v, --verbose             Log at debug level")
}

// printRenderSettingsUsage prints the render behaviour flags.
func printRenderSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --hard-wraps          Render single newlines as <br>")
	fmt.Fprintln(w, "      --no-raw-html         Drop inline HTML instead of sanitizing it")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for code blocks (e.g. monokai, github)")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editor at / and read-only views at /?content=<token>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (env MDPAGES_ADDR)")
	fmt.Fprintln(w, "      --base-url <url>      Origin used in share URLs (env MDPAGES_BASE_URL)")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded styles and templates")
	fmt.Fprintln(w, "      --export              Enable PDF export at /export.pdf (requires Chrome)")
	fmt.Fprintln(w, "      --print-config        Print the effective config and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error (env MDPAGES_LOG_LEVEL)")
	fmt.Fprintln(w, "      --log-format <s>      text, json (env MDPAGES_LOG_FORMAT)")
	fmt.Fprintln(w)
	printRenderSettingsUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages render [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown with $...$ math to a sanitized, highlighted HTML fragment.")
	fmt.Fprintln(w, "Reads stdin when input is omitted or \"-\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w, "      --css                 Print the code highlighting stylesheet instead")
	fmt.Fprintln(w)
	printRenderSettingsUsage(w)
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
	case "render":
		printRenderUsage(env.Stdout)
	case "share":
		fmt.Fprintln(env.Stdout, "Usage: mdpages share [input] [--origin <url>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the URL that opens input read-only. Reads stdin when input is omitted.")
		fmt.Fprintln(env.Stdout, "The origin defaults to server.baseURL, then http://<server.addr>/.")
	case "decode":
		fmt.Fprintln(env.Stdout, "Usage: mdpages decode <token|url>")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the document carried by a share token or a URL with ?content=.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdpages doctor [--json] [--config <name>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check config, assets, the listen address and Chrome.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpages version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpages help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
