package reference

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ougirez/mothertongue/internal/pkg/census"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
)

const (
	colState        = "state"
	colStateCode    = "state code"
	colDistrictCode = "district code"
	colDistrictName = "district name"
)

type DistrictEntry struct {
	State        string
	StateCode    string
	DistrictCode census.Code
	DistrictName string
}

type districtKey struct {
	state    string
	district string
}

// DistrictTable resolves (state, district) names to district codes. It is
// read-only once loaded.
type DistrictTable struct {
	entries []DistrictEntry
	byName  map[districtKey]int
}

// LoadDistricts builds the table from a decoded sheet whose first row is the
// header (State, State Code, District Code, District Name). Rows with an
// unparseable district code are skipped.
func LoadDistricts(rows [][]string) (*DistrictTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty district table", constants.ErrReferenceTableMalformed)
	}

	idx, err := columnIndex(rows[0], colState, colDistrictCode, colDistrictName)
	if err != nil {
		return nil, err
	}
	stateCodeCol, ok := idx[colStateCode]
	if !ok {
		stateCodeCol = -1
	}

	t := &DistrictTable{byName: make(map[districtKey]int, len(rows)-1)}
	for _, record := range rows[1:] {
		code, ok := census.ParseCode(cell(record, idx[colDistrictCode]))
		if !ok {
			continue
		}

		e := DistrictEntry{
			State:        cell(record, idx[colState]),
			StateCode:    cell(record, stateCodeCol),
			DistrictCode: code,
			DistrictName: cell(record, idx[colDistrictName]),
		}
		k := newDistrictKey(e.State, e.DistrictName)
		if _, dup := t.byName[k]; dup {
			continue
		}
		t.byName[k] = len(t.entries)
		t.entries = append(t.entries, e)
	}

	return t, nil
}

func newDistrictKey(state, district string) districtKey {
	fold := cases.Fold()
	return districtKey{
		state:    fold.String(strings.TrimSpace(state)),
		district: fold.String(strings.TrimSpace(district)),
	}
}

func (t *DistrictTable) Resolve(state, district string) (census.Code, error) {
	i, ok := t.byName[newDistrictKey(state, district)]
	if !ok {
		return 0, fmt.Errorf("%w: district %q of state %q", constants.ErrEntityNotFound, district, state)
	}
	return t.entries[i].DistrictCode, nil
}

func (t *DistrictTable) Len() int {
	return len(t.entries)
}
