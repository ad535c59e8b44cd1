// Package readers loads raw source files from disk: the object-list
// JSON and flat YAML people files, the XML transaction feed, and the
// CSV transfer and promotion feeds. Readers only decode; shaping into
// canonical records is the normalizers' job.
package readers

import (
	"encoding/json"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

// PeopleObjectList loads the object-list people file (JSON array).
func PeopleObjectList(path string) ([]sources.ObjectListPerson, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer file.Close()

	var people []sources.ObjectListPerson
	if err := json.NewDecoder(file).Decode(&people); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return people, nil
}

// PeopleFlat loads the flat people file (YAML sequence).
func PeopleFlat(path string) ([]sources.FlatPerson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var people []sources.FlatPerson
	if err := yaml.Unmarshal(data, &people); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return people, nil
}
