// ABOUTME: Input validation functions for uploads and discovery parameters
// ABOUTME: Rejects unsupported workbook names and unsafe inventory patterns

package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// allowedWorkbookExtensions are the spreadsheet formats accepted for import
var allowedWorkbookExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// vmPatternRegex matches finder glob patterns without path separators
var vmPatternRegex = regexp.MustCompile(`^[a-zA-Z0-9 _.*?\[\]-]+$`)

const maxVMPatternLength = 128

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateWorkbookName checks that an uploaded file name looks like a spreadsheet.
func ValidateWorkbookName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("no file selected")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedWorkbookExtensions[ext] {
		return fmt.Errorf("only .xlsx or .xls files are allowed, got %q", sanitizeForLog(filepath.Base(name)))
	}
	return nil
}

// ValidateVMPattern checks a VM name pattern before it reaches the vSphere finder.
// Path separators are rejected so the pattern cannot walk the inventory tree.
func ValidateVMPattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	if len(pattern) > maxVMPatternLength {
		return fmt.Errorf("pattern longer than %d characters", maxVMPatternLength)
	}
	if strings.Contains(pattern, "..") || !vmPatternRegex.MatchString(pattern) {
		return fmt.Errorf("invalid VM pattern: %s", sanitizeForLog(pattern))
	}
	return nil
}
