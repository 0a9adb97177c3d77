package reference

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ougirez/mothertongue/internal/pkg/constants"
)

const (
	colOfficeName = "office name"
	colPincode    = "pincode"
)

var trailingQualifier = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// CleanTownName is the pincode matching key: trailing parenthesized
// qualifiers removed ("Springfield (M)" -> "springfield"), trimmed, lower-cased.
func CleanTownName(name string) string {
	s := strings.TrimSpace(name)
	for trailingQualifier.MatchString(s) {
		s = trailingQualifier.ReplaceAllString(s, "")
	}
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

type PincodeEntry struct {
	OfficeName string
	Pincode    string
}

// PincodeIndex maps cleaned town names to every pincode listed for them, in
// reference-table order.
type PincodeIndex struct {
	byTown map[string][]string
}

// LoadPincodes builds the index from a decoded sheet whose first row is the
// header (Office Name, Pincode).
func LoadPincodes(rows [][]string) (*PincodeIndex, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty pincode table", constants.ErrReferenceTableMalformed)
	}

	idx, err := columnIndex(rows[0], colOfficeName, colPincode)
	if err != nil {
		return nil, err
	}

	entries := make([]PincodeEntry, 0, len(rows)-1)
	for _, record := range rows[1:] {
		entries = append(entries, PincodeEntry{
			OfficeName: cell(record, idx[colOfficeName]),
			Pincode:    cell(record, idx[colPincode]),
		})
	}

	return NewPincodeIndex(entries), nil
}

func NewPincodeIndex(entries []PincodeEntry) *PincodeIndex {
	p := &PincodeIndex{byTown: make(map[string][]string)}
	for _, e := range entries {
		key := CleanTownName(e.OfficeName)
		if key == "" || e.Pincode == "" {
			continue
		}
		p.byTown[key] = append(p.byTown[key], e.Pincode)
	}
	return p
}

// Lookup never returns nil; unmatched towns get an empty list.
func (p *PincodeIndex) Lookup(town string) []string {
	codes := p.byTown[CleanTownName(town)]
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

func (p *PincodeIndex) Len() int {
	return len(p.byTown)
}
