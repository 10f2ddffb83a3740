package skincare

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/ingredients.yaml
var defaultIngredientsYAML []byte

type ingredientFile struct {
	Ingredients []Ingredient `yaml:"ingredients"`
}

// UnmarshalYAML lets dictionary files spell conditions loosely
// ("acne-prone", "Acne-Prone", "acne_prone").
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseCondition(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// ParseDatabase decodes a YAML ingredient dictionary.
func ParseDatabase(data []byte) (*Database, error) {
	var file ingredientFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode ingredient dictionary: %w", err)
	}
	return NewDatabase(file.Ingredients)
}

// LoadDatabase reads a YAML ingredient dictionary from path.
func LoadDatabase(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredient dictionary '%s': %w", path, err)
	}
	db, err := ParseDatabase(data)
	if err != nil {
		return nil, fmt.Errorf("ingredient dictionary '%s': %w", path, err)
	}
	return db, nil
}

var (
	defaultDBOnce sync.Once
	defaultDB     *Database
	defaultDBErr  error
)

// DefaultDatabase returns the dictionary compiled into the binary. It is
// parsed once and shared.
func DefaultDatabase() (*Database, error) {
	defaultDBOnce.Do(func() {
		defaultDB, defaultDBErr = ParseDatabase(defaultIngredientsYAML)
	})
	return defaultDB, defaultDBErr
}

// OpenDatabase loads the dictionary at path, or the built-in one when path
// is empty.
func OpenDatabase(path string) (*Database, error) {
	if path == "" {
		return DefaultDatabase()
	}
	return LoadDatabase(path)
}
