package cmd

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ulix1808/AppdyLicCalc/handlers"
	"github.com/ulix1808/AppdyLicCalc/services"
)

// useBackend points the CLI at a real backend router for the test and
// resets the global flags afterwards.
func useBackend(t *testing.T) {
	t.Helper()
	h := handlers.NewHandler(nil, nil)
	server := httptest.NewServer(handlers.NewRouter(h, nil, nil))

	apiURL = server.URL
	t.Cleanup(func() {
		server.Close()
		h.Close()
		apiURL = ""
		jsonOutput = false
		calculateFile = ""
		maxCores = 0
		teFile = ""
		teInteractive = false
		importOutput = ""
		inventoryPattern = ""
	})
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// writeWorkbook saves a sizing workbook with one application and one test.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", services.InventorySheet); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	f.NewSheet(services.NetworkTestSheet)
	for cell, v := range map[string]string{"B4": "Portal", "F4": "2", "G4": "8"} {
		f.SetCellStr(services.InventorySheet, cell, v)
	}
	for cell, v := range map[string]string{"C4": "BGP", "D4": "5", "E4": "3"} {
		f.SetCellStr(services.NetworkTestSheet, cell, v)
	}

	path := filepath.Join(t.TempDir(), "sizing.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}
