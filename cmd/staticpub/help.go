package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: staticpub <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate    Build the static ActivityPub instance")
	fmt.Fprintln(w, "  serve       Serve a built instance locally")
	fmt.Fprintln(w, "  doctor      Check configuration and input files")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'staticpub help <command>' for details on a specific command.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A bare config path also works: 'staticpub site.yaml' runs generate.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: staticpub generate [config] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build every instance document from the pseudo-note directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  config    Config file name or path (or set STATICPUB_CONFIG)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -e, --entries <dir>    Pseudo-note directory (overrides config)")
	fmt.Fprintln(w, "  -o, --output <dir>     Output directory (overrides config)")
	fmt.Fprintln(w, "  -d, --domain <url>     Instance domain (overrides config)")
	fmt.Fprintln(w, "  -w, --watch            Rebuild when entries change")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show per-file progress")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: staticpub serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a built instance over HTTP with ActivityPub content types,")
	fmt.Fprintln(w, "for local inspection before deploying to a static host.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>      Listen address (default localhost:8080)")
	fmt.Fprintln(w, "      --dir <dir>        Directory to serve (overrides config output)")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -w, --watch            Rebuild and notify livereload clients on change")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show per-file progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "With --watch, clients connected to ws://<addr>/livereload receive")
	fmt.Fprintln(w, "a \"reload\" message after each successful rebuild.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: staticpub doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the configuration, pseudo-notes, and output directory, and")
	fmt.Fprintln(w, "report what a generate run would find.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "      --json             Output diagnostics as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: staticpub version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: staticpub help <command>")
	default:
		fmt.Fprintf(env.Stdout, "Unknown command %q\n\n", args[0])
		printUsage(env.Stdout)
	}
}
