// Package confutil wraps YAML and TOML parsing to isolate the external
// dependencies. This allows swapping the underlying libraries without
// modifying callers. Config files are the only decode surface, so both
// formats reject unknown fields to catch typos in key names.
package confutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// MaxInputSize limits config input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("confutil: nil or empty data")
	ErrNilDestination = errors.New("confutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("confutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalYAML parses YAML into v, rejecting unknown fields.
func UnmarshalYAML(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("confutil: %w", err)
	}
	return nil
}

// UnmarshalTOML parses TOML into v, rejecting unknown fields.
func UnmarshalTOML(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("confutil: %w", err)
	}
	return nil
}

// MarshalYAML serializes v to YAML. Used by doctor to echo the
// resolved configuration.
func MarshalYAML(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("confutil: %w", err)
	}
	return result, nil
}
