// ABOUTME: Workbook ingestion for the fixed-layout sizing spreadsheet
// ABOUTME: Reads inventory and network tests by sheet name and 0-indexed cell position

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ulix1808/AppdyLicCalc/models"
	"github.com/ulix1808/AppdyLicCalc/normalize"
)

// Sheet names of the sizing workbook
const (
	InventorySheet   = "Anexo Aplicaciones"
	NetworkTestSheet = "ThousandeyesV1"
)

// ErrSheetNotFound is returned when a required sheet is missing.
var ErrSheetNotFound = errors.New("sheet not found")

// Sheet is a 0-indexed grid of text cells. Cells outside the grid are "".
type Sheet interface {
	Cell(row, col int) string
	RowCount() int
}

// Workbook is a set of named sheets.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (Sheet, error)
}

// Grid is an in-memory Sheet.
type Grid [][]string

func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

func (g Grid) RowCount() int {
	return len(g)
}

// MemoryWorkbook is an in-memory Workbook keyed by sheet name.
type MemoryWorkbook map[string]Grid

func (m MemoryWorkbook) SheetNames() []string {
	return slices.Sorted(maps.Keys(m))
}

func (m MemoryWorkbook) Sheet(name string) (Sheet, error) {
	g, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return g, nil
}

// ExcelWorkbook reads sheets from an .xlsx file.
type ExcelWorkbook struct {
	mu   sync.Mutex
	file *excelize.File
}

// OpenWorkbook parses an .xlsx document from r.
func OpenWorkbook(r io.Reader) (*ExcelWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	return &ExcelWorkbook{file: f}, nil
}

func (w *ExcelWorkbook) SheetNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList()
}

// Sheet loads every row of the named sheet into a Grid.
func (w *ExcelWorkbook) Sheet(name string) (Sheet, error) {
	if !lo.Contains(w.SheetNames(), name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// Stored values, not display text: "#,##0" would render 2000 as "2,000"
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	return Grid(rows), nil
}

// Close releases the temporary files excelize may hold.
func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

// WorkbookImporter extracts inventory and network tests from the sizing workbook.
type WorkbookImporter struct{}

// NewWorkbookImporter creates a new importer
func NewWorkbookImporter() *WorkbookImporter {
	return &WorkbookImporter{}
}

// Import reads both sheets concurrently. Only a missing inventory sheet
// is an error; a missing network-test sheet yields no tests.
func (i *WorkbookImporter) Import(ctx context.Context, wb Workbook) (models.ImportResult, error) {
	var (
		inv   models.Inventory
		tests []models.ThousandEyesTest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		inv, err = i.ImportInventory(wb)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		tests, err = i.ImportNetworkTests(wb)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ImportResult{}, err
	}

	slog.Info("Workbook imported",
		"applications", len(inv.Applications),
		"databases", len(inv.Databases),
		"sap_apps", len(inv.SAPApps),
		"microservices", len(inv.Microservices),
		"mobile_apps", len(inv.MobileApps),
		"network_tests", len(tests),
	)
	return models.NewImportResult(inv, tests), nil
}

// rowRange returns rows [from, to] that exist in the sheet.
func rowRange(s Sheet, from, to int) []int {
	last := min(to, s.RowCount()-1)
	if last < from {
		return nil
	}
	return lo.RangeFrom(from, last-from+1)
}

// ImportInventory reads the fixed tables of the inventory sheet.
func (i *WorkbookImporter) ImportInventory(wb Workbook) (models.Inventory, error) {
	sheet, err := wb.Sheet(InventorySheet)
	if err != nil {
		return models.Inventory{}, err
	}
	cell := func(row, col int) string { return normalize.Cell(sheet.Cell(row, col)) }

	inv := models.Inventory{
		Applications:         []models.Application{},
		Databases:            []models.Database{},
		SAPApps:              []models.SAPApplication{},
		Microservices:        []models.Microservice{},
		ServerVisibilityOnly: []models.ServerVisibilityOnly{},
		MobileApps:           []models.MobileApp{},
	}

	for _, r := range rowRange(sheet, 3, 5) {
		name := cell(r, 1)
		if name == "" {
			continue
		}
		inv.Applications = append(inv.Applications, models.Application{
			Name:                  name,
			Server:                cell(r, 2),
			Type:                  cell(r, 3),
			Nodes:                 normalize.PositiveInt(cell(r, 5), models.DefaultNodes),
			CoresPerNode:          normalize.PositiveInt(cell(r, 6), models.DefaultCoresPerNode),
			IsWebApp:              normalize.Affirmative(cell(r, 7)),
			SessionsUsersPerMonth: normalize.CountPtr(cell(r, 8)),
		})
	}

	for _, r := range rowRange(sheet, 9, 11) {
		name := cell(r, 1)
		if name == "" || strings.EqualFold(name, "db") {
			continue
		}
		inv.Databases = append(inv.Databases, models.Database{
			Name:         name,
			Version:      cell(r, 2),
			CoresPerNode: normalize.PositiveInt(cell(r, 3), models.DefaultCoresPerNode),
			Nodes:        normalize.PositiveInt(cell(r, 4), models.DefaultNodes),
			OS:           cell(r, 5),
			RelatedApp:   cell(r, 6),
		})
	}

	for _, r := range rowRange(sheet, 17, 18) {
		name := cell(r, 1)
		if name == "" {
			continue
		}
		coresStr := lo.CoalesceOrEmpty(cell(r, 6), cell(r, 5), strconv.Itoa(models.DefaultCoresPerNode))
		inv.SAPApps = append(inv.SAPApps, models.SAPApplication{
			Name:     name,
			Server:   cell(r, 2),
			Type:     cell(r, 3),
			Nodes:    normalize.PositiveInt(cell(r, 4), models.DefaultNodes),
			CoresStr: coresStr,
		})
	}

	// The sheet has no cluster sizing; nodes and cores are edited afterwards
	for _, r := range rowRange(sheet, 22, 23) {
		name := cell(r, 1)
		if name == "" || strings.EqualFold(name, "no aplica") {
			continue
		}
		inv.Microservices = append(inv.Microservices, models.Microservice{
			Name:                  name,
			Server:                cell(r, 2),
			Type:                  cell(r, 3),
			Nodes:                 models.DefaultNodes,
			CoresPerNode:          models.DefaultCoresPerNode,
			IsWebApp:              normalize.Affirmative(cell(r, 8)),
			SessionsUsersPerMonth: normalize.CountPtr(cell(r, 9)),
		})
	}

	for _, r := range rowRange(sheet, 31, 32) {
		name := cell(r, 1)
		if name == "" || strings.EqualFold(name, "no aplica") || strings.EqualFold(name, "app") {
			continue
		}
		inv.MobileApps = append(inv.MobileApps, models.MobileApp{
			Name:     name,
			Type:     cell(r, 2),
			Platform: cell(r, 3),
			IDE:      cell(r, 4),
		})
	}

	return inv, nil
}

// ImportNetworkTests reads one test per row from row 3 of the network-test
// sheet. A workbook without that sheet has no tests.
func (i *WorkbookImporter) ImportNetworkTests(wb Workbook) ([]models.ThousandEyesTest, error) {
	tests := []models.ThousandEyesTest{}

	sheet, err := wb.Sheet(NetworkTestSheet)
	if errors.Is(err, ErrSheetNotFound) {
		return tests, nil
	}
	if err != nil {
		return nil, err
	}
	cell := func(row, col int) string { return normalize.Cell(sheet.Cell(row, col)) }

	for r := 3; r < sheet.RowCount(); r++ {
		testType := cell(r, 2)
		if testType == "" {
			continue
		}
		agentType := strings.ToUpper(cell(r, 5))
		if agentType == "" {
			agentType = models.DefaultAgentType
		}
		timeout := normalize.PositiveInt(cell(r, 6), models.DefaultTimeoutSeconds)

		tests = append(tests, models.ThousandEyesTest{
			TestType:        testType,
			IntervalMinutes: normalize.PositiveInt(cell(r, 3), models.DefaultIntervalMinutes),
			NumAgents:       normalize.PositiveInt(cell(r, 4), models.DefaultNumAgents),
			AgentType:       agentType,
			TimeoutSeconds:  &timeout,
		})
	}

	return tests, nil
}
