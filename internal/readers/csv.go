package readers

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/agentstation/unify/pkg/errors"
)

// forEachCSVRow streams a headered CSV file, calling fn with a
// column-name lookup for each data row.
func forEachCSVRow(path string, fn func(get func(column string) string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.WrapParse("csv", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.WrapParse("csv", path, err)
		}
		get := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if err := fn(get); err != nil {
			return err
		}
	}
}
