package staticpub

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alnah/go-staticpub/internal/fileutil"
	"github.com/alnah/go-staticpub/internal/hints"
	"github.com/alnah/go-staticpub/internal/jsonutil"
	"github.com/alnah/go-staticpub/internal/logger"
)

// parseCacheSize bounds the note parse cache. Watch mode rebuilds hit
// the cache for every unchanged file; 512 covers any realistic instance.
const parseCacheSize = 512

// indexTemplate is the static landing page, filled with the username and
// host. Byte layout is part of the output contract.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head><title>StaticPub Instance</title></head>
<body>
    <p>This is the StaticPub Instance for
    <strong>@%s@%s</strong>.</p>
</body>
</html>`

// Generator runs the full build pipeline: discover entries, parse notes,
// assemble the outbox, and emit every endpoint document.
type Generator struct {
	cfg      *Config
	clock    func() time.Time
	renderer *MarkdownRenderer
	cache    *lru.Cache[string, cachedNote]
}

// cachedNote remembers one parsed file. The size and modification time
// invalidate the entry when the file changes between builds.
type cachedNote struct {
	size    int64
	modTime time.Time
	note    *Note
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock injects the timestamp source for notes without a published
// header. A fixed clock makes builds reproducible.
// Panics if clock is nil (programmer error, similar to time.NewTicker).
func WithClock(clock func() time.Time) Option {
	if clock == nil {
		panic("staticpub: WithClock clock must not be nil")
	}
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithRenderer replaces the Markdown renderer built from the config.
func WithRenderer(r *MarkdownRenderer) Option {
	return func(g *Generator) {
		g.renderer = r
	}
}

// NewGenerator creates a Generator for the given configuration. The
// config is validated (and normalized) first, so a hand-built Config is
// as safe as a loaded one.
func NewGenerator(cfg *Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cache, err := lru.New[string, cachedNote](parseCacheSize)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:   cfg,
		clock: time.Now,
		cache: cache,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.renderer == nil && cfg.Render.Markdown {
		g.renderer = NewMarkdownRenderer()
	}

	return g, nil
}

// GenerateResult reports one completed build.
type GenerateResult struct {
	// Notes is the number of entry notes feeding the outbox.
	Notes int

	// Files lists every emitted path relative to the output directory,
	// in emission order.
	Files []string
}

// Generate runs one full build. Parsing is strict: the first malformed
// note aborts the run before any output file is written. Emitted files
// are written atomically, in a fixed order, so a build over unchanged
// input with a fixed clock is byte-identical.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, error) {
	logger.Section("Generate")

	notes, err := g.ParseEntries(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("parsed %d notes from %s", len(notes), g.cfg.Paths.Entries)

	featured, err := g.parseFeatured(ctx)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, collection, err := AssembleOutbox(g.cfg, notes)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := g.cfg.Paths.InstanceFiles
	for _, dir := range []string{out, filepath.Join(out, "posts"), filepath.Join(out, ".well-known")} {
		if err := fileutil.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("%w: %s: %v%s", ErrWriteOutput, dir, err, hints.ForOutputDirectory())
		}
	}

	em := &emission{outDir: out}

	if err := g.emitInstanceFiles(em); err != nil {
		return nil, err
	}
	if err := g.emitActor(em, featured != nil); err != nil {
		return nil, err
	}
	if err := em.writeJSON(".well-known/webfinger", BuildWebfinger(g.cfg)); err != nil {
		return nil, err
	}
	if err := em.writeJSON("following", BuildFollowing(g.cfg)); err != nil {
		return nil, err
	}
	if err := em.writeJSON("followers", BuildFollowers(g.cfg)); err != nil {
		return nil, err
	}
	for _, note := range notes {
		if err := em.writeJSON("posts/"+noteID(note.Filename), note.Standalone()); err != nil {
			return nil, err
		}
	}
	if featured != nil {
		if err := em.writeJSON("featured", BuildFeatured(g.cfg, featured)); err != nil {
			return nil, err
		}
	}
	if err := em.writeJSON("toots", page); err != nil {
		return nil, err
	}
	if err := em.writeJSON("outbox", collection); err != nil {
		return nil, err
	}

	logger.Info("wrote %d files to %s", len(em.files), out)
	return &GenerateResult{Notes: len(notes), Files: em.files}, nil
}

// ParseEntries discovers and parses every pseudo-note under the entries
// directory. Also used by doctor to validate notes without writing
// anything.
func (g *Generator) ParseEntries(ctx context.Context) ([]*Note, error) {
	entriesDir := g.cfg.Paths.Entries
	if !fileutil.DirExists(entriesDir) {
		return nil, fmt.Errorf("%w: entries directory %s does not exist%s",
			ErrReadInput, entriesDir, hints.ForEntriesDirectory(entriesDir))
	}

	// GlobWalk enumerates in lexical order, keeping runs deterministic.
	var paths []string
	err := doublestar.GlobWalk(os.DirFS(entriesDir), "**/*", func(path string, d fs.DirEntry) error {
		if !d.Type().IsRegular() || d.Name() == ".gitkeep" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", ErrReadInput, entriesDir, err)
	}

	notes := make([]*Note, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		full := filepath.Join(entriesDir, filepath.FromSlash(path))
		note, err := g.parseFile(ctx, full)
		if err != nil {
			return nil, err
		}

		if prev, ok := seen[note.ID]; ok {
			return nil, fmt.Errorf("%w: %s and %s both produce %s", ErrDuplicateNoteID, prev, path, note.ID)
		}
		seen[note.ID] = path
		notes = append(notes, note)
	}
	return notes, nil
}

// parseFile parses one pseudo-note, consulting the LRU cache first. A
// cache entry survives as long as the file's size and mtime do.
func (g *Generator) parseFile(ctx context.Context, path string) (*Note, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	if entry, ok := g.cache.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		logger.Debug("cache hit: %s", path)
		return entry.note, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the configured entries directory
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}

	note, err := ParseNote(g.cfg.Instance.Domain, filepath.Base(path), data, g.clock())
	if err != nil {
		return nil, err
	}

	if g.renderer != nil {
		html, err := g.renderer.Render(ctx, note.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", note.Filename, err)
		}
		note = note.withContent(html)
	}

	g.cache.Add(path, cachedNote{size: info.Size(), modTime: info.ModTime(), note: note})
	logger.Debug("parsed %s", path)
	return note, nil
}

// parseFeatured parses the configured featured pseudo-note, if any. A
// missing file is not an error: the featured collection and the actor's
// featured property are simply omitted.
func (g *Generator) parseFeatured(ctx context.Context) (*Note, error) {
	path := g.cfg.Instance.FeaturedNote
	if path == "" || !fileutil.FileExists(path) {
		return nil, nil
	}
	return g.parseFile(ctx, path)
}

// emitInstanceFiles writes the landing page and, for GitHub-hosted
// instances, the CNAME and .nojekyll companions.
func (g *Generator) emitInstanceFiles(em *emission) error {
	index := fmt.Sprintf(indexTemplate, g.cfg.Actor.PreferredUsername, g.cfg.Instance.Host)
	if err := em.writeRaw("index.html", []byte(index)); err != nil {
		return err
	}
	if !g.cfg.Instance.GitHubInstance {
		return nil
	}
	if err := em.writeRaw("CNAME", []byte(g.cfg.Instance.Host)); err != nil {
		return err
	}
	// Jekyll would hide the .well-known directory; .nojekyll disables it.
	return em.writeRaw(".nojekyll", []byte("."))
}

// emitActor writes the actor document and copies whichever banner and
// icon files exist beside it.
func (g *Generator) emitActor(em *emission, hasFeatured bool) error {
	assets := ActorAssets{HasFeatured: hasFeatured}
	if p := g.cfg.Instance.Banner; p != "" && fileutil.FileExists(p) {
		assets.BannerName = filepath.Base(p)
	}
	if p := g.cfg.Instance.Icon; p != "" && fileutil.FileExists(p) {
		assets.IconName = filepath.Base(p)
	}

	if err := em.writeJSON(g.cfg.Actor.PreferredUsername, BuildActor(g.cfg, assets)); err != nil {
		return err
	}
	if assets.BannerName != "" {
		if err := em.copyMedia(g.cfg.Instance.Banner, assets.BannerName); err != nil {
			return err
		}
	}
	if assets.IconName != "" {
		if err := em.copyMedia(g.cfg.Instance.Icon, assets.IconName); err != nil {
			return err
		}
	}
	return nil
}

// emission tracks files written during one build.
type emission struct {
	outDir string
	files  []string
}

func (e *emission) writeJSON(relPath string, doc any) error {
	data, err := jsonutil.MarshalNoEscapeIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, relPath, err)
	}
	return e.write(relPath, data)
}

func (e *emission) writeRaw(relPath string, data []byte) error {
	return e.write(relPath, data)
}

func (e *emission) write(relPath string, data []byte) error {
	full := filepath.Join(e.outDir, filepath.FromSlash(relPath))
	if err := fileutil.WriteFileAtomic(full, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, full, err)
	}
	logger.Debug("wrote %s", relPath)
	e.files = append(e.files, relPath)
	return nil
}

func (e *emission) copyMedia(src, name string) error {
	dst := filepath.Join(e.outDir, name)
	if err := fileutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("%w: copying %s: %v%s", ErrWriteOutput, src, err, hints.ForMediaFile())
	}
	logger.Debug("copied %s", name)
	e.files = append(e.files, name)
	return nil
}
