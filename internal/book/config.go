package book

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// maxConfigSize caps book definition input to prevent memory exhaustion.
const maxConfigSize = 1 << 20 // 1MB

var (
	ErrConfigNotFound = errors.New("book definition not found")
	ErrConfigParse    = errors.New("failed to parse book definition")
	ErrConfigTooLarge = errors.New("book definition exceeds maximum size")
)

// Load reads and validates a book definition from a YAML file.
// Unknown fields are rejected.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read book definition: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a book definition from YAML bytes.
func Parse(data []byte) (*Book, error) {
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), maxConfigSize)
	}

	var b Book
	if err := yaml.UnmarshalWithOptions(data, &b, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}
