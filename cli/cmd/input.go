// ABOUTME: Input helpers shared by the calculation commands
// ABOUTME: Reads inventories and tests from JSON files or sizing workbooks

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulix1808/AppdyLicCalc/cli/internal/client"
	"github.com/ulix1808/AppdyLicCalc/models"
)

// isWorkbook reports whether path names a spreadsheet rather than JSON
func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// readInput loads an inventory and network tests from path. Workbooks are
// imported through the backend; JSON files may hold a calculation request,
// an import result, or a bare array of network tests.
func readInput(ctx context.Context, c *client.Client, path string) (*models.ImportResult, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}

	if isWorkbook(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open workbook: %w", err)
		}
		defer f.Close()
		return c.ImportWorkbook(ctx, path, f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read input: %w", err)
	}

	var result models.ImportResult
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &result.ThousandEyesTests); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", filepath.Base(path), err)
		}
		return &result, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", filepath.Base(path), err)
	}
	return &result, nil
}

// toJSON renders v indented for terminal output
func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
