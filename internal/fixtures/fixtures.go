// Package fixtures loads YAML test data and names the records tests create.
package fixtures

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Load decodes the YAML file at path into v. Unknown keys are errors so a
// typo in a fixture fails loudly instead of leaving a field empty.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := Decode(bytes.NewReader(data), v); err != nil {
		return fmt.Errorf("fixture %s: %w", path, err)
	}
	return nil
}

// Decode decodes one YAML document from r into v.
func Decode(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty fixture")
		}
		return fmt.Errorf("failed to parse fixture: %w", err)
	}
	return nil
}

// LoadAs is Load returning a fresh T.
func LoadAs[T any](path string) (T, error) {
	var v T
	err := Load(path, &v)
	return v, err
}

// UniqueName returns prefix followed by a short random suffix, e.g.
// "godef_3f2a9c1b". Names only need to be unique across runs on one appliance.
func UniqueName(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if prefix == "" {
		return suffix
	}
	return prefix + "_" + suffix
}
