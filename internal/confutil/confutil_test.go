package confutil_test

// Notes:
// - MarshalYAML error branch: not tested because yaml.Marshal only fails
//   with unmarshalable types (channels, functions) which are compile-time
//   detectable and not realistic in production usage.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-staticpub/internal/confutil"
)

type testConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Count   int    `yaml:"count" toml:"count"`
	Enabled bool   `yaml:"enabled" toml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalYAML - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "test" {
					t.Errorf("Name = %q, want %q", cfg.Name, "test")
				}
				if cfg.Count != 42 {
					t.Errorf("Count = %d, want %d", cfg.Count, 42)
				}
				if !cfg.Enabled {
					t.Error("Enabled = false, want true")
				}
			},
		},
		{
			name:    "unknown field causes error",
			data:    []byte("name: test\nunknown_field: value"),
			dest:    &testConfig{},
			wantErr: errors.New("confutil:"), // partial match
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: confutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testConfig{},
			wantErr: confutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: confutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("name: [unclosed"),
			dest:    &testConfig{},
			wantErr: errors.New("confutil:"),
		},
		{
			name: "unicode content",
			data: []byte("name: 日本語テスト"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "日本語テスト" {
					t.Errorf("Name = %q, want %q", cfg.Name, "日本語テスト")
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := confutil.UnmarshalYAML(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return // exact match via errors.Is
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalTOML - Parses TOML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalTOML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid TOML",
			data: []byte("name = \"test\"\ncount = 42\nenabled = true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "test" {
					t.Errorf("Name = %q, want %q", cfg.Name, "test")
				}
				if cfg.Count != 42 {
					t.Errorf("Count = %d, want %d", cfg.Count, 42)
				}
				if !cfg.Enabled {
					t.Error("Enabled = false, want true")
				}
			},
		},
		{
			name:    "unknown field causes error",
			data:    []byte("name = \"test\"\nunknown_field = \"value\""),
			dest:    &testConfig{},
			wantErr: errors.New("confutil:"),
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: confutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name = \"test\""),
			dest:    nil,
			wantErr: confutil.ErrNilDestination,
		},
		{
			name:    "invalid TOML syntax",
			data:    []byte("name = [unclosed"),
			dest:    &testConfig{},
			wantErr: errors.New("confutil:"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := confutil.UnmarshalTOML(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarshalYAML - Serializes Go structs to YAML
// ---------------------------------------------------------------------------

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	data, err := confutil.MarshalYAML(&testConfig{Name: "marshal", Count: 5, Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "name: marshal") {
		t.Errorf("output missing 'name: marshal', got: %s", s)
	}
	if !strings.Contains(s, "count: 5") {
		t.Errorf("output missing 'count: 5', got: %s", s)
	}
	if !strings.Contains(s, "enabled: true") {
		t.Errorf("output missing 'enabled: true', got: %s", s)
	}
}

// ---------------------------------------------------------------------------
// TestFormatEquivalence - YAML and TOML decode to the same struct
// ---------------------------------------------------------------------------

func TestFormatEquivalence(t *testing.T) {
	t.Parallel()

	var fromYAML, fromTOML testConfig
	if err := confutil.UnmarshalYAML([]byte("name: same\ncount: 7\nenabled: true"), &fromYAML); err != nil {
		t.Fatalf("UnmarshalYAML failed: %v", err)
	}
	if err := confutil.UnmarshalTOML([]byte("name = \"same\"\ncount = 7\nenabled = true"), &fromTOML); err != nil {
		t.Fatalf("UnmarshalTOML failed: %v", err)
	}
	if fromYAML != fromTOML {
		t.Errorf("decoded structs differ: yaml=%+v toml=%+v", fromYAML, fromTOML)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	// Save and restore original MaxInputSize
	originalMax := confutil.MaxInputSize
	t.Cleanup(func() { confutil.MaxInputSize = originalMax })

	t.Run("input under limit succeeds", func(t *testing.T) {
		confutil.MaxInputSize = 100
		data := []byte("name: x")
		var cfg testConfig
		err := confutil.UnmarshalYAML(data, &cfg)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input exceeding limit fails", func(t *testing.T) {
		confutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("name: x"))
		var cfg testConfig
		err := confutil.UnmarshalYAML(data, &cfg)
		if !errors.Is(err, confutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})

	t.Run("error message includes sizes", func(t *testing.T) {
		confutil.MaxInputSize = 50
		data := make([]byte, 100)
		var cfg testConfig
		err := confutil.UnmarshalYAML(data, &cfg)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		msg := err.Error()
		if !strings.Contains(msg, "100 bytes") {
			t.Errorf("error should contain actual size, got: %s", msg)
		}
		if !strings.Contains(msg, "max 50") {
			t.Errorf("error should contain max size, got: %s", msg)
		}
	})

	t.Run("UnmarshalTOML also enforces limit", func(t *testing.T) {
		confutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("name = \"x\""))
		var cfg testConfig
		err := confutil.UnmarshalTOML(data, &cfg)
		if !errors.Is(err, confutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})
}
