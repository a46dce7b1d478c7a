// Package dataset loads attribute tables from serialized dataset files.
//
// A dataset file maps object ids to flat attribute/value records, all
// strings:
//
//	{
//	  "0000": {"habitat": "ocean", "diet": "carnivore", ...},
//	  "0001": {"habitat": "forest", "diet": "herbivore", ...}
//	}
//
// JSON and YAML encodings are supported, chosen by file extension.
package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oqabench/oqa/errors"
	"github.com/oqabench/oqa/oracle"
)

// Load reads an attribute table from path. The format is chosen by
// extension: .json, or .yaml/.yml.
func Load(path string) (oracle.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading dataset %s", path)
	}

	var table oracle.Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "parsing %s: %v", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "parsing %s: %v", path, err)
		}
	default:
		return nil, errors.NewInvalidInputError("unsupported dataset extension %q (want .json, .yaml, or .yml)", ext)
	}

	if err := Validate(table); err != nil {
		return nil, errors.Wrapf(err, "validating %s", path)
	}
	return table, nil
}

// Validate checks the structural invariants the oracle relies on: a
// non-empty table whose objects all carry the identical attribute-name set.
func Validate(table oracle.Table) error {
	if len(table) == 0 {
		return errors.ErrEmptyTable
	}

	var refID string
	var ref map[string]string
	for id, attrs := range table {
		if ref == nil {
			refID, ref = id, attrs
			continue
		}
		if len(attrs) != len(ref) {
			return errors.NewInvalidInputError(
				"object %q has %d attributes but %q has %d", id, len(attrs), refID, len(ref))
		}
		for name := range ref {
			if _, ok := attrs[name]; !ok {
				return errors.NewInvalidInputError("object %q is missing attribute %q", id, name)
			}
		}
	}
	return nil
}
