// ABOUTME: Tests for sizing workbook ingestion
// ABOUTME: Covers fixed cell positions, skip markers, defaults and real xlsx parsing

package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// sheetBuilder fills a Grid by 0-indexed coordinates.
type sheetBuilder struct {
	grid Grid
}

func (b *sheetBuilder) set(row, col int, value string) *sheetBuilder {
	for len(b.grid) <= row {
		b.grid = append(b.grid, nil)
	}
	for len(b.grid[row]) <= col {
		b.grid[row] = append(b.grid[row], "")
	}
	b.grid[row][col] = value
	return b
}

func (b *sheetBuilder) row(row int, values ...string) *sheetBuilder {
	for col, v := range values {
		b.set(row, col, v)
	}
	return b
}

func inventorySheet() Grid {
	b := &sheetBuilder{}
	b.row(0, "", "Anexo de aplicaciones")
	b.row(3, "", "Portal Clientes", "srv-web-01", "Java", "", "2", "8", "Si", "40000 usuarios")
	b.row(4, "", "Backoffice", "srv-app-02", ".NET", "", "", "", "No", "")
	b.row(5, "", "", "placeholder")
	b.row(9, "", "DB", "header")
	b.row(10, "", "CoreDB", "19c", "16", "2", "Linux", "Portal Clientes")
	b.row(11, "", "nan", "12", "8")
	b.row(17, "", "SAP ERP", "sap-01", "S4", "2", "", "ASCS 2 VCPU, Primario APP Server 16 VCPU")
	b.row(18, "", "SAP BW", "sap-02", "BW", "", "6 vcpu", "")
	b.row(22, "", "No Aplica")
	b.row(23, "", "Pagos", "aks-01", "Kubernetes", "", "", "", "", "Sí", "1.5k")
	b.row(31, "", "App")
	b.row(32, "", "Banca Movil", "Nativa", "iOS", "Xcode")
	return b.grid
}

func networkTestSheet() Grid {
	b := &sheetBuilder{}
	b.row(2, "", "", "Tipo", "Intervalo", "Agentes", "Tipo agente", "Timeout")
	b.row(3, "", "", "HTTP Server", "1", "3", "cloud", "")
	b.row(4, "", "", "", "5")
	b.row(5, "", "", "BGP", "", "", "", "")
	b.row(6, "", "", "page_load", "10", "2", "Enterprise", "30")
	return b.grid
}

func TestWorkbookImporter_ImportInventory(t *testing.T) {
	wb := MemoryWorkbook{InventorySheet: inventorySheet()}
	inv, err := NewWorkbookImporter().ImportInventory(wb)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(inv.Applications) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(inv.Applications))
	}
	portal := inv.Applications[0]
	if portal.Name != "Portal Clientes" || portal.Server != "srv-web-01" || portal.Type != "Java" {
		t.Errorf("unexpected application identity: %+v", portal)
	}
	if portal.Nodes != 2 || portal.CoresPerNode != 8 || !portal.IsWebApp {
		t.Errorf("unexpected application sizing: %+v", portal)
	}
	if portal.SessionsUsersPerMonth == nil || *portal.SessionsUsersPerMonth != 40000 {
		t.Errorf("SessionsUsersPerMonth = %v, want 40000", portal.SessionsUsersPerMonth)
	}
	back := inv.Applications[1]
	if back.Nodes != 1 || back.CoresPerNode != 4 || back.IsWebApp || back.SessionsUsersPerMonth != nil {
		t.Errorf("expected defaults for blank cells, got %+v", back)
	}

	if len(inv.Databases) != 1 {
		t.Fatalf("expected header row and nan row skipped, got %d databases", len(inv.Databases))
	}
	db := inv.Databases[0]
	if db.Name != "CoreDB" || db.Version != "19c" || db.CoresPerNode != 16 || db.Nodes != 2 || db.OS != "Linux" || db.RelatedApp != "Portal Clientes" {
		t.Errorf("unexpected database: %+v", db)
	}

	if len(inv.SAPApps) != 2 {
		t.Fatalf("expected 2 SAP apps, got %d", len(inv.SAPApps))
	}
	if got := inv.SAPApps[0].TotalCores(); got != 36 {
		t.Errorf("SAP ERP TotalCores = %d, want 36", got)
	}
	if inv.SAPApps[1].CoresStr != "6 vcpu" || inv.SAPApps[1].TotalCores() != 6 {
		t.Errorf("SAP BW should fall back to column 5, got %+v", inv.SAPApps[1])
	}

	if len(inv.Microservices) != 1 {
		t.Fatalf("expected 'No Aplica' skipped, got %d microservices", len(inv.Microservices))
	}
	ms := inv.Microservices[0]
	if ms.Nodes != 1 || ms.CoresPerNode != 4 || !ms.IsWebApp {
		t.Errorf("unexpected microservice: %+v", ms)
	}
	if ms.SessionsUsersPerMonth == nil || *ms.SessionsUsersPerMonth != 1500 {
		t.Errorf("microservice sessions = %v, want 1500", ms.SessionsUsersPerMonth)
	}

	if len(inv.MobileApps) != 1 || inv.MobileApps[0].Name != "Banca Movil" || inv.MobileApps[0].IDE != "Xcode" {
		t.Errorf("unexpected mobile apps: %+v", inv.MobileApps)
	}
	if inv.MobileApps[0].ActiveAgentsPerMonth != nil {
		t.Error("mobile active agents are not read from the sheet")
	}

	if inv.ServerVisibilityOnly == nil || len(inv.ServerVisibilityOnly) != 0 {
		t.Error("server visibility list should be empty, not nil")
	}
}

func TestWorkbookImporter_ShortSheet(t *testing.T) {
	b := &sheetBuilder{}
	b.row(3, "", "Solo App")
	inv, err := NewWorkbookImporter().ImportInventory(MemoryWorkbook{InventorySheet: b.grid})
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(inv.Applications) != 1 || len(inv.Databases) != 0 || len(inv.MobileApps) != 0 {
		t.Errorf("unexpected inventory from short sheet: %+v", inv)
	}
}

func TestWorkbookImporter_MissingInventorySheet(t *testing.T) {
	_, err := NewWorkbookImporter().ImportInventory(MemoryWorkbook{"Hoja1": nil})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestWorkbookImporter_ImportNetworkTests(t *testing.T) {
	wb := MemoryWorkbook{NetworkTestSheet: networkTestSheet()}
	tests, err := NewWorkbookImporter().ImportNetworkTests(wb)
	if err != nil {
		t.Fatalf("ImportNetworkTests failed: %v", err)
	}
	if len(tests) != 3 {
		t.Fatalf("expected 3 tests, got %d", len(tests))
	}

	http := tests[0]
	if http.TestType != "HTTP Server" || http.IntervalMinutes != 1 || http.NumAgents != 3 || http.AgentType != "CLOUD" {
		t.Errorf("unexpected first test: %+v", http)
	}
	if http.TimeoutSeconds == nil || *http.TimeoutSeconds != 5 {
		t.Errorf("blank timeout should default to 5, got %v", http.TimeoutSeconds)
	}

	bgp := tests[1]
	if bgp.IntervalMinutes != 5 || bgp.NumAgents != 1 || bgp.AgentType != "ENTERPRISE" {
		t.Errorf("expected defaults for BGP row, got %+v", bgp)
	}

	pl := tests[2]
	if pl.AgentType != "ENTERPRISE" || *pl.TimeoutSeconds != 30 || pl.IntervalMinutes != 10 {
		t.Errorf("unexpected page load test: %+v", pl)
	}
}

func TestWorkbookImporter_MissingNetworkSheet(t *testing.T) {
	tests, err := NewWorkbookImporter().ImportNetworkTests(MemoryWorkbook{InventorySheet: inventorySheet()})
	if err != nil {
		t.Fatalf("missing network sheet should not fail: %v", err)
	}
	if tests == nil || len(tests) != 0 {
		t.Errorf("expected empty test list, got %v", tests)
	}
}

func TestWorkbookImporter_Import(t *testing.T) {
	wb := MemoryWorkbook{
		InventorySheet:   inventorySheet(),
		NetworkTestSheet: networkTestSheet(),
	}
	result, err := NewWorkbookImporter().Import(context.Background(), wb)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Applications) != 2 || len(result.ThousandEyesTests) != 3 {
		t.Errorf("unexpected import sizes: %d apps, %d tests", len(result.Applications), len(result.ThousandEyesTests))
	}
	if got := result.Applications[0].IsWebApp.Text(); got != "Si" {
		t.Errorf("IsWebApp rendered as %q, want Si", got)
	}

	// The imported shape converts back to the same typed inventory
	inv := result.CalculateRequest.ToInventory()
	if inv.Applications[0].TotalCores() != 16 || inv.SAPApps[0].TotalCores() != 36 {
		t.Errorf("round trip changed sizing: %+v", inv)
	}
}

func TestWorkbookImporter_ImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWorkbookImporter().Import(ctx, MemoryWorkbook{InventorySheet: inventorySheet()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func writeXLSX(t *testing.T, sheets map[string]Grid) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, grid := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("renaming sheet: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("creating sheet: %v", err)
		}
		for r, row := range grid {
			for c, v := range row {
				if v == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellStr(name, cell, v); err != nil {
					t.Fatalf("setting %s!%s: %v", name, cell, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf
}

func TestOpenWorkbook_XLSX(t *testing.T) {
	buf := writeXLSX(t, map[string]Grid{
		InventorySheet:   inventorySheet(),
		NetworkTestSheet: networkTestSheet(),
	})

	wb, err := OpenWorkbook(buf)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	if len(wb.SheetNames()) != 2 {
		t.Errorf("expected 2 sheets, got %v", wb.SheetNames())
	}

	result, err := NewWorkbookImporter().Import(context.Background(), wb)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Applications) != 2 || len(result.Databases) != 1 || len(result.SAPApps) != 2 {
		t.Errorf("unexpected inventory from xlsx: %+v", result.CalculateRequest)
	}
	if len(result.ThousandEyesTests) != 3 {
		t.Errorf("expected 3 network tests from xlsx, got %d", len(result.ThousandEyesTests))
	}

	if _, err := wb.Sheet("Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestOpenWorkbook_NumberFormattedCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	if _, err := f.NewSheet(NetworkTestSheet); err != nil {
		t.Fatalf("creating sheet: %v", err)
	}
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}

	cells := []struct {
		sheet, cell string
		value       any
	}{
		{InventorySheet, "B4", "Portal Clientes"},
		{InventorySheet, "F4", 2},
		{InventorySheet, "G4", 8},
		{InventorySheet, "H4", "Si"},
		{InventorySheet, "I4", 2000},
		{NetworkTestSheet, "C4", "HTTP Server"},
		{NetworkTestSheet, "D4", 5},
		{NetworkTestSheet, "E4", 1200},
	}
	for _, c := range cells {
		if err := f.SetCellValue(c.sheet, c.cell, c.value); err != nil {
			t.Fatalf("setting %s!%s: %v", c.sheet, c.cell, err)
		}
		if _, numeric := c.value.(int); numeric {
			if err := f.SetCellStyle(c.sheet, c.cell, c.cell, thousands); err != nil {
				t.Fatalf("styling %s!%s: %v", c.sheet, c.cell, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	wb, err := OpenWorkbook(buf)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	importer := NewWorkbookImporter()
	inv, err := importer.ImportInventory(wb)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(inv.Applications) != 1 {
		t.Fatalf("expected 1 application, got %d", len(inv.Applications))
	}
	portal := inv.Applications[0]
	if portal.SessionsUsersPerMonth == nil || *portal.SessionsUsersPerMonth != 2000 {
		t.Errorf("sessions = %v, want 2000", portal.SessionsUsersPerMonth)
	}
	if portal.Nodes != 2 || portal.CoresPerNode != 8 {
		t.Errorf("nodes/cores = %d/%d, want 2/8", portal.Nodes, portal.CoresPerNode)
	}

	tests, err := importer.ImportNetworkTests(wb)
	if err != nil {
		t.Fatalf("ImportNetworkTests failed: %v", err)
	}
	if len(tests) != 1 || tests[0].NumAgents != 1200 || tests[0].IntervalMinutes != 5 {
		t.Errorf("unexpected tests: %+v", tests)
	}
}

func TestOpenWorkbook_NotASpreadsheet(t *testing.T) {
	if _, err := OpenWorkbook(bytes.NewReader([]byte("name,cores\nweb,4\n"))); err == nil {
		t.Error("expected error for non-xlsx content")
	}
}

func TestGrid_OutOfRange(t *testing.T) {
	g := Grid{{"a"}}
	if g.Cell(0, 0) != "a" || g.Cell(0, 5) != "" || g.Cell(9, 0) != "" || g.Cell(-1, 0) != "" {
		t.Error("Grid.Cell should return empty string outside the grid")
	}
}
