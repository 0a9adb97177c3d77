package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

var workbookExts = map[string]bool{".xlsx": true, ".xlsm": true}

// legacyExt is the BIFF .xls format, which excelize cannot open.
const legacyExt = ".xls"

// Dir is a directory holding one workbook per state. The state identifier is
// the file stem with underscores read as spaces ("Uttar_Pradesh.xlsx").
type Dir struct {
	path string
}

func NewDir(path string) *Dir {
	return &Dir{path: path}
}

func (d *Dir) Path() string {
	return d.path
}

// ListStates returns the available states ordered by file name.
func (d *Dir) ListStates(ctx context.Context) ([]string, error) {
	files, err := d.files(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]string, 0, len(files))
	for _, f := range files {
		states = append(states, StateName(f))
	}
	return states, nil
}

func (d *Dir) files(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", constants.ErrSourceNotFound, d.path)
		}
		return nil, fmt.Errorf("os.ReadDir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if IsWorkbookFile(e.Name()) {
			files = append(files, e.Name())
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), legacyExt) {
			logger.Warnf(ctx, "skipping %s in %s: .xls workbooks are not supported, convert them to .xlsx", e.Name(), d.path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// StateName turns a workbook file name into its state identifier.
func StateName(file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return strings.ReplaceAll(stem, "_", " ")
}

func IsWorkbookFile(name string) bool {
	return workbookExts[strings.ToLower(filepath.Ext(name))]
}

// FileStem is the inverse of StateName without an extension.
func FileStem(state string) string {
	return strings.ReplaceAll(strings.TrimSpace(state), " ", "_")
}

func (d *Dir) locate(ctx context.Context, state string) (string, error) {
	files, err := d.files(ctx)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(FileStem(state))
	for _, f := range files {
		if strings.ToLower(FileStem(StateName(f))) == want {
			return filepath.Join(d.path, f), nil
		}
	}
	return "", fmt.Errorf("%w: state %q in %s", constants.ErrSourceNotFound, state, d.path)
}

// Sheet returns the raw cell text of the first sheet of the state's workbook.
func (d *Dir) Sheet(ctx context.Context, state string) ([][]string, error) {
	path, err := d.locate(ctx, state)
	if err != nil {
		return nil, err
	}
	return readFirstSheet(path)
}

func readFirstSheet(path string) (rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: excelize.OpenFile %s: %v", constants.ErrSourceMalformed, filepath.Base(path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets in %s", constants.ErrSourceMalformed, filepath.Base(path))
	}

	rows, err = f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("f.GetRows: %w", err)
	}
	return rows, nil
}
