package courier

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed couriers.yaml
var builtinTable []byte

type document struct {
	Couriers []Profile `yaml:"couriers"`
}

// Parse decodes a YAML rate table. Unknown keys are rejected so typos in an
// operator-provided table fail loudly.
func Parse(data []byte) ([]Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse courier table: %w", err)
	}
	return doc.Couriers, nil
}

// LoadFile reads and validates a YAML rate table from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load courier table %q: %w", path, err)
	}
	profiles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load courier table %q: %w", path, err)
	}
	return NewCatalog(profiles...)
}

// Builtin returns the catalog of published Dominican courier rates shipped
// with the binary.
func Builtin() (*Catalog, error) {
	profiles, err := Parse(builtinTable)
	if err != nil {
		return nil, err
	}
	return NewCatalog(profiles...)
}
