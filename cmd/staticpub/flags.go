package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// generateFlags holds flags for the generate command.
type generateFlags struct {
	common  commonFlags
	entries string
	output  string
	domain  string
	watch   bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
	dir    string
	watch  bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file progress")
}

// addGenerateFlags adds generate flags to a FlagSet.
func addGenerateFlags(fs *flag.FlagSet, f *generateFlags) {
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.entries, "entries", "e", "", "pseudo-note directory (overrides config)")
	fs.StringVarP(&f.output, "output", "o", "", "output directory (overrides config)")
	fs.StringVarP(&f.domain, "domain", "d", "", "instance domain (overrides config)")
	fs.BoolVarP(&f.watch, "watch", "w", false, "rebuild when entries change")
}

// addServeFlags adds serve flags to a FlagSet.
func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.addr, "addr", "a", "localhost:8080", "listen address")
	fs.StringVar(&f.dir, "dir", "", "directory to serve (overrides config output)")
	fs.BoolVarP(&f.watch, "watch", "w", false, "rebuild and notify livereload clients on change")
}

// addDoctorFlags adds doctor flags to a FlagSet.
func addDoctorFlags(fs *flag.FlagSet, f *doctorFlags) {
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "output diagnostics as JSON")
}

// newFlagSet creates a FlagSet whose usage and errors go to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, w io.Writer) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := newFlagSet("generate", w, printGenerateUsage)
	addGenerateFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)
	addServeFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)
	addDoctorFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
