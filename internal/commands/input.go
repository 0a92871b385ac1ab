package commands

import (
	"fmt"
	"strings"

	"datalake/internal/domain"
	"datalake/internal/services/filter"
)

// AtomInput names where atom values come from and which ones to drop.
type AtomInput struct {
	Values  []string
	File    string
	Exclude []string
}

// readAtoms merges values with the lines of file, skipping blanks and # comments,
// and removes excluded atoms and duplicates.
func readAtoms(fs domain.FileSystemAdapter, in AtomInput, f domain.AtomFilter) ([]string, error) {
	values := append([]string(nil), in.Values...)

	if in.File != "" {
		data, err := fs.ReadFile(in.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read atom file %s: %w", in.File, err)
		}
		values = append(values, strings.Split(string(data), "\n")...)
	}

	seen := make(map[string]struct{}, len(values))
	atoms := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.HasPrefix(v, "#") {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		atoms = append(atoms, v)
	}

	return filter.Apply(f, atoms), nil
}
