package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	staticpub "github.com/alnah/go-staticpub"
	"github.com/alnah/go-staticpub/internal/confutil"
	"github.com/alnah/go-staticpub/internal/fileutil"
	"github.com/alnah/go-staticpub/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo  `json:"config"`
	Entries  entriesInfo `json:"entries"`
	Output   outputInfo  `json:"output"`
	Media    mediaInfo   `json:"media"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// configInfo holds config resolution results.
type configInfo struct {
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Username string `json:"username,omitempty"`
	Resolved string `json:"resolved,omitempty"` // effective config echoed as YAML
}

// entriesInfo holds entries directory check results.
type entriesInfo struct {
	Dir   string `json:"dir,omitempty"`
	Found bool   `json:"found"`
	Notes int    `json:"notes"`
}

// outputInfo holds output directory check results.
type outputInfo struct {
	Dir      string `json:"dir,omitempty"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// mediaInfo holds optional companion file check results. Each field is
// "ok", "missing", or "" when not configured.
type mediaInfo struct {
	Banner   string `json:"banner,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Featured string `json:"featured,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return ExitUsage
	}
	configureLogger(flags.common, env)

	result := runDoctor(flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{Status: "ready"}

	cfg := checkConfig(result, flags, env)
	if cfg != nil {
		checkEntries(result, cfg, env)
		checkOutput(result, cfg)
		checkMedia(result, cfg)
	}

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig resolves and loads the configuration.
func checkConfig(result *doctorResult, flags *doctorFlags, env *Environment) *staticpub.Config {
	name := flags.common.config
	if name == "" {
		name = env.Getenv("STATICPUB_CONFIG")
	}
	if name == "" {
		name = defaultConfigName
	}

	result.Config.Path = findConfigPath(name)

	cfg, err := staticpub.LoadConfig(name)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}

	result.Config.Found = true
	result.Config.Domain = cfg.Instance.Domain
	result.Config.Username = cfg.Actor.PreferredUsername
	if echoed, yamlErr := confutil.MarshalYAML(cfg); yamlErr == nil {
		result.Config.Resolved = string(echoed)
	}
	return cfg
}

// findConfigPath mirrors the loader's search order so doctor can report
// which file would be picked up.
func findConfigPath(name string) string {
	if fileutil.IsFilePath(name) {
		if fileutil.FileExists(name) {
			return name
		}
		return ""
	}
	extensions := []string{".yaml", ".yml", ".toml"}
	for _, ext := range extensions {
		if fileutil.FileExists(name + ext) {
			return name + ext
		}
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			p := filepath.Join(userConfigDir, "go-staticpub", name+ext)
			if fileutil.FileExists(p) {
				return p
			}
		}
	}
	return ""
}

// checkEntries verifies the entries directory and parses every note in it.
func checkEntries(result *doctorResult, cfg *staticpub.Config, env *Environment) {
	dir := cfg.Paths.Entries
	result.Entries.Dir = dir

	if !fileutil.DirExists(dir) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("entries directory not found: %s%s", dir, hints.ForEntriesDirectory(dir)))
		return
	}
	result.Entries.Found = true

	gen, err := staticpub.NewGenerator(cfg, staticpub.WithClock(env.Now))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	notes, err := gen.ParseEntries(context.Background())
	if err != nil {
		result.Errors = append(result.Errors, err.Error()+parseHint(err))
		return
	}

	result.Entries.Notes = len(notes)
	if len(notes) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("entries directory %s contains no notes", dir))
	}
}

// parseHint maps note parse errors to an actionable hint.
func parseHint(err error) string {
	switch {
	case errors.Is(err, staticpub.ErrMalformedHeader):
		return hints.ForMalformedHeader()
	case errors.Is(err, staticpub.ErrMalformedHeaderLine):
		return hints.ForMalformedHeaderLine()
	case errors.Is(err, staticpub.ErrBadTimestamp):
		return hints.ForBadTimestamp()
	}
	return ""
}

// checkOutput verifies the output location is writable.
func checkOutput(result *doctorResult, cfg *staticpub.Config) {
	dir := cfg.Paths.InstanceFiles
	result.Output.Dir = dir

	probe := dir
	if fileutil.DirExists(dir) {
		result.Output.Exists = true
	} else {
		probe = filepath.Dir(dir)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("output directory %s does not exist yet; generate will create it", dir))
	}

	testFile := filepath.Join(probe, ".staticpub-doctor")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("output location not writable: %s%s", probe, hints.ForOutputDirectory()))
		return
	}
	_ = os.Remove(testFile)
	result.Output.Writable = true
}

// checkMedia verifies configured banner, icon, and featured note files exist.
func checkMedia(result *doctorResult, cfg *staticpub.Config) {
	result.Media.Banner = mediaStatus(cfg.Instance.Banner)
	if result.Media.Banner == "missing" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("banner configured but not found: %s%s", cfg.Instance.Banner, hints.ForMediaFile()))
	}

	result.Media.Icon = mediaStatus(cfg.Instance.Icon)
	if result.Media.Icon == "missing" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("icon configured but not found: %s%s", cfg.Instance.Icon, hints.ForMediaFile()))
	}

	result.Media.Featured = mediaStatus(cfg.Instance.FeaturedNote)
	if result.Media.Featured == "missing" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("featured note configured but not found: %s", cfg.Instance.FeaturedNote))
	}
}

func mediaStatus(path string) string {
	if path == "" {
		return ""
	}
	if fileutil.FileExists(path) {
		return "ok"
	}
	return "missing"
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "staticpub doctor")
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	if r.Config.Found {
		fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Path)
		fmt.Fprintf(w, "  [OK] Domain: %s\n", r.Config.Domain)
		fmt.Fprintf(w, "  [OK] Actor: %s\n", r.Config.Username)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	// Entries section
	fmt.Fprintln(w, "Entries")
	if r.Entries.Dir == "" {
		fmt.Fprintln(w, "  skipped: config not loaded")
	} else if r.Entries.Found {
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Entries.Dir)
		fmt.Fprintf(w, "  [OK] Notes: %d\n", r.Entries.Notes)
	} else {
		fmt.Fprintf(w, "  [ERROR] Directory missing: %s\n", r.Entries.Dir)
	}
	fmt.Fprintln(w)

	// Output section
	fmt.Fprintln(w, "Output")
	if r.Output.Dir == "" {
		fmt.Fprintln(w, "  skipped: config not loaded")
	} else {
		if r.Output.Exists {
			fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Output.Dir)
		} else {
			fmt.Fprintf(w, "  [WARN] Directory: %s (will be created)\n", r.Output.Dir)
		}
		if r.Output.Writable {
			fmt.Fprintln(w, "  [OK] Writable")
		} else {
			fmt.Fprintln(w, "  [ERROR] Not writable")
		}
	}
	fmt.Fprintln(w)

	// Media section
	fmt.Fprintln(w, "Media")
	if r.Media.Banner == "" && r.Media.Icon == "" && r.Media.Featured == "" {
		fmt.Fprintln(w, "  none configured")
	} else {
		printMediaLine(w, "Banner", r.Media.Banner)
		printMediaLine(w, "Icon", r.Media.Icon)
		printMediaLine(w, "Featured note", r.Media.Featured)
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to publish")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printMediaLine(w io.Writer, label, status string) {
	switch status {
	case "ok":
		fmt.Fprintf(w, "  [OK] %s\n", label)
	case "missing":
		fmt.Fprintf(w, "  [WARN] %s: missing\n", label)
	}
}
