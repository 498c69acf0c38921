package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// A .env beside the config keeps STATICPUB_* variables out of shell
	// profiles. A missing file is the normal case.
	_ = godotenv.Load()

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args[1:], DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
// Split from main so tests can drive the full CLI in-process.
func runMain(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "generate":
		return runGenerateCmd(rest, env)
	case "serve":
		return runServeCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "go-staticpub %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}

	// A bare config path runs generate, preserving the one-argument
	// invocation an instance Makefile typically uses.
	if looksLikeConfig(cmd) {
		return runGenerateCmd(args, env)
	}

	fmt.Fprintf(env.Stderr, "unknown command %q\n\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// looksLikeConfig reports whether arg names a config file rather than a
// command: a path separator or a recognized config extension.
func looksLikeConfig(arg string) bool {
	if strings.ContainsAny(arg, "/\\") {
		return true
	}
	switch strings.ToLower(extOf(arg)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

func extOf(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}

// hasVerboseFlag scans raw arguments for the verbose flag before any
// FlagSet exists, so maxprocs logging can be decided up front.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
