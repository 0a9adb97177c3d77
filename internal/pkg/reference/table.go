package reference

import (
	"fmt"
	"strings"

	"github.com/ougirez/mothertongue/internal/pkg/constants"
)

// columnIndex maps the required headers of a reference sheet to their
// positions. Header matching ignores case and surrounding whitespace.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %q in header %q", constants.ErrReferenceTableMalformed, missing, header)
	}

	return idx, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
