package staticpub

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-staticpub/internal/confutil"
	"github.com/alnah/go-staticpub/internal/fileutil"
	"github.com/alnah/go-staticpub/internal/hints"
)

// Config holds all configuration for one instance. Built once at
// startup, validated, and passed by reference; nothing mutates it after
// Validate.
type Config struct {
	Instance InstanceConfig `yaml:"instance" toml:"instance"`
	Actor    ActorConfig    `yaml:"actor" toml:"actor"`
	Paths    PathsConfig    `yaml:"paths" toml:"paths"`
	Outbox   OutboxConfig   `yaml:"outbox" toml:"outbox"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
}

// InstanceConfig identifies the instance and its optional companions.
type InstanceConfig struct {
	Domain         string `yaml:"domain" toml:"domain"`                   // URL prefix for all ids, no trailing slash
	Host           string `yaml:"host" toml:"host"`                       // webfinger host part
	ActorID        string `yaml:"actor_id" toml:"actor_id"`               // empty = {domain}/{preferred_username}
	Banner         string `yaml:"banner" toml:"banner"`                   // optional media path
	Icon           string `yaml:"icon" toml:"icon"`                       // optional media path
	FeaturedNote   string `yaml:"featured_note" toml:"featured_note"`     // optional pseudo-note path
	GitHubInstance bool   `yaml:"github_instance" toml:"github_instance"` // emit CNAME and .nojekyll
}

// ActorConfig describes the published Person.
type ActorConfig struct {
	PreferredUsername string `yaml:"preferred_username" toml:"preferred_username"`
	Name              string `yaml:"name" toml:"name"`
	Summary           string `yaml:"summary" toml:"summary"`
	Discoverable      bool   `yaml:"discoverable" toml:"discoverable"`
	Followers         int    `yaml:"followers" toml:"followers"` // advertised count
	Following         int    `yaml:"following" toml:"following"`
}

// PathsConfig locates input and output directories.
type PathsConfig struct {
	Entries       string `yaml:"entries" toml:"entries"`
	InstanceFiles string `yaml:"instance_files" toml:"instance_files"`
}

// OutboxConfig bounds the outbox page.
type OutboxConfig struct {
	PaginateBy int `yaml:"paginate_by" toml:"paginate_by"` // 0 = unbounded
}

// RenderConfig toggles Markdown rendering of note bodies.
type RenderConfig struct {
	Markdown bool `yaml:"markdown" toml:"markdown"`
}

// DefaultConfig returns the baseline configuration. Loading decodes on
// top of it, so absent keys keep these values.
func DefaultConfig() *Config {
	return &Config{
		Instance: InstanceConfig{GitHubInstance: true},
		Actor:    ActorConfig{Discoverable: true},
		Paths: PathsConfig{
			Entries:       "entries",
			InstanceFiles: "public",
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback). The loaded config is validated before being returned.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeConfig(configPath, data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeConfig dispatches on the file extension. Both formats parse
// strictly so a misspelled key fails instead of silently defaulting.
func decodeConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := confutil.UnmarshalYAML(data, cfg); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
	case ".toml":
		if err := confutil.UnmarshalTOML(data, cfg); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
	default:
		return fmt.Errorf("%w: %s (want .yaml, .yml, or .toml)", ErrUnsupportedFormat, path)
	}
	return nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, ~/.config/go-staticpub/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (all extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (all extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-staticpub", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s",
		ErrConfigNotFound, strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}

// Validate normalizes and checks the configuration. Called automatically
// by LoadConfig, but available for consumers who construct Config
// manually (e.g., tests, library users). Normalization strips whitespace
// and trailing slashes from the domain and derives actor_id when empty,
// so it must run before any id concatenation.
func (c *Config) Validate() error {
	c.Instance.Domain = strings.TrimRight(strings.TrimSpace(c.Instance.Domain), "/")
	c.Instance.Host = strings.TrimSpace(c.Instance.Host)
	c.Instance.ActorID = strings.TrimSpace(c.Instance.ActorID)
	c.Instance.FeaturedNote = strings.TrimSpace(c.Instance.FeaturedNote)
	c.Actor.PreferredUsername = strings.TrimSpace(c.Actor.PreferredUsername)
	c.Paths.Entries = strings.TrimSpace(c.Paths.Entries)
	c.Paths.InstanceFiles = strings.TrimSpace(c.Paths.InstanceFiles)

	if c.Instance.Domain == "" {
		return fmt.Errorf("%w: instance.domain cannot be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.Instance.Domain)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: instance.domain must be an http(s) URL, got %q", ErrInvalidConfig, c.Instance.Domain)
	}
	if c.Instance.Host == "" {
		return fmt.Errorf("%w: instance.host cannot be empty", ErrInvalidConfig)
	}

	username := c.Actor.PreferredUsername
	if username == "" {
		return fmt.Errorf("%w: actor.preferred_username cannot be empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(username, "@/ ") {
		return fmt.Errorf("%w: actor.preferred_username must not contain @, /, or spaces, got %q",
			ErrInvalidConfig, username)
	}

	if c.Actor.Followers < 0 {
		return fmt.Errorf("%w: actor.followers cannot be negative, got %d", ErrInvalidConfig, c.Actor.Followers)
	}
	if c.Actor.Following < 0 {
		return fmt.Errorf("%w: actor.following cannot be negative, got %d", ErrInvalidConfig, c.Actor.Following)
	}
	if c.Outbox.PaginateBy < 0 {
		return fmt.Errorf("%w: outbox.paginate_by cannot be negative, got %d", ErrInvalidConfig, c.Outbox.PaginateBy)
	}

	if c.Paths.Entries == "" {
		return fmt.Errorf("%w: paths.entries cannot be empty", ErrInvalidConfig)
	}
	if c.Paths.InstanceFiles == "" {
		return fmt.Errorf("%w: paths.instance_files cannot be empty", ErrInvalidConfig)
	}

	if c.Instance.ActorID == "" {
		c.Instance.ActorID = c.Instance.Domain + "/" + username
	}

	return nil
}
