package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ougirez/mothertongue/internal/pkg/constants"
)

// ReadTable decodes a reference table (.xlsx/.xlsm first sheet, or .csv).
// The header stays as the first row.
func ReadTable(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: reference table %s does not exist", constants.ErrReferenceTableMalformed, path)
		}
		return nil, fmt.Errorf("os.Stat: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case workbookExts[ext]:
		rows, err := readFirstSheet(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", constants.ErrReferenceTableMalformed, err)
		}
		return rows, nil
	case ext == ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported reference table format %q", constants.ErrReferenceTableMalformed, ext)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", constants.ErrReferenceTableMalformed, filepath.Base(path), err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
