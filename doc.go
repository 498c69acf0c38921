// Package staticpub generates a static, read-only ActivityPub instance
// from a directory of plain-text pseudo-notes.
//
// # Quick Start
//
// Load a configuration, create a generator, and run one build:
//
//	cfg, err := staticpub.LoadConfig("staticpub.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen, err := staticpub.NewGenerator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := gen.Generate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d files for %d notes\n", len(result.Files), result.Notes)
//
// The output directory then holds the Actor document, Webfinger discovery
// file, Outbox and per-note documents, and the GitHub Pages extras. Any
// static file host can serve it; no ActivityPub server is required.
//
// # Pseudo-Notes
//
// A pseudo-note is a UTF-8 text file with an optional preamble, a header
// block framed by two "---" lines, and a free-form body:
//
//	---
//	published: 2024-01-01T00:00:00Z
//	summary: optional content warning
//	---
//	Hello, Fediverse!
//
// Recognized headers (published, sensitive, to) populate typed fields;
// everything else is carried verbatim into the emitted Note document.
// A note without a published header is stamped with the generator's
// clock at parse time.
//
// # Generation Pipeline
//
// One Generate call runs these stages:
//
//  1. Discover entry files (recursive, .gitkeep excluded)
//  2. Parse every pseudo-note (LRU-cached by path and mtime)
//  3. Assemble the outbox (sort newest-first, truncate to the page size)
//  4. Emit all JSON endpoints, media copies, and instance files
//
// Parsing is strict: one malformed note aborts the whole run before any
// output file is written. Individual files are written atomically.
//
// # Configuration
//
// Use functional options to customize the generator:
//
//	gen, err := staticpub.NewGenerator(cfg,
//	    staticpub.WithClock(func() time.Time { return fixed }),
//	)
//
// A fixed clock makes runs reproducible: unchanged input yields
// byte-identical output.
package staticpub
