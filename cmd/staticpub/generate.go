package main

import (
	"context"
	"errors"
	"fmt"

	staticpub "github.com/alnah/go-staticpub"
	"github.com/alnah/go-staticpub/internal/logger"
)

// defaultConfigName is searched in the standard locations when no config
// is named on the command line or in STATICPUB_CONFIG.
const defaultConfigName = "staticpub"

// runGenerateCmd executes the generate command and returns an exit code.
func runGenerateCmd(args []string, env *Environment) int {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return ExitUsage
	}
	configureLogger(flags.common, env)

	cfg, err := loadGenerateConfig(flags, positional, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	gen, err := staticpub.NewGenerator(cfg, staticpub.WithClock(env.Now))
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	result, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Generated %d files (%d notes) in %s\n",
			len(result.Files), result.Notes, cfg.Paths.InstanceFiles)
	}

	if flags.watch {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Watching %s for changes\n", cfg.Paths.Entries)
		}
		err := watchAndRebuild(ctx, gen, cfg, env, flags.common.quiet, nil)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
	}
	return ExitSuccess
}

// configureLogger routes library logging to the environment's stderr.
// Quiet wins over verbose when both are set.
func configureLogger(f commonFlags, env *Environment) {
	logger.SetOutput(env.Stderr)
	logger.SetVerbose(f.verbose && !f.quiet)
}

// loadGenerateConfig resolves which config to load and applies flag
// overrides. Resolution order: --config, positional argument,
// STATICPUB_CONFIG, then the default name search.
func loadGenerateConfig(flags *generateFlags, positional []string, env *Environment) (*staticpub.Config, error) {
	name := flags.common.config
	if name == "" && len(positional) > 0 {
		name = positional[0]
	}
	if name == "" {
		name = env.Getenv("STATICPUB_CONFIG")
	}
	if name == "" {
		name = defaultConfigName
	}

	cfg, err := staticpub.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides merges generate flags into a loaded config (flags win)
// and re-validates. Overriding the domain re-derives the actor id unless
// the config pinned one explicitly.
func applyOverrides(cfg *staticpub.Config, f *generateFlags) error {
	if f.entries != "" {
		cfg.Paths.Entries = f.entries
	}
	if f.output != "" {
		cfg.Paths.InstanceFiles = f.output
	}
	if f.domain != "" {
		derived := cfg.Instance.Domain + "/" + cfg.Actor.PreferredUsername
		if cfg.Instance.ActorID == derived {
			cfg.Instance.ActorID = ""
		}
		cfg.Instance.Domain = f.domain
	}
	return cfg.Validate()
}
