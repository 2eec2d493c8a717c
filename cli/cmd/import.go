// ABOUTME: Import command for the licensecalc CLI
// ABOUTME: Uploads a sizing workbook and writes the extracted inventory as JSON

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ulix1808/AppdyLicCalc/cli/internal/client"
	"github.com/ulix1808/AppdyLicCalc/models"
)

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Extract inventory and tests from a sizing workbook",
	Long: `Upload a sizing workbook and write the extracted inventory and network
tests as JSON, ready to edit and pass to "calculate -f" or "te -f".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runImport(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Write JSON to this file instead of stdout")
}

func runImport(ctx context.Context, w io.Writer, path string) int {
	if !isWorkbook(path) {
		fmt.Fprintln(w, "Error: only .xlsx or .xls files can be imported")
		return 2
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(w, "Error: cannot open workbook: %v\n", err)
		return 2
	}
	defer f.Close()

	result, err := client.New(GetAPIURL()).ImportWorkbook(ctx, path, f)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	data := toJSON(result)
	if importOutput == "" {
		fmt.Fprintln(w, data)
		return 0
	}

	if err := os.WriteFile(importOutput, []byte(data+"\n"), 0o644); err != nil {
		fmt.Fprintf(w, "Error: cannot write output: %v\n", err)
		return 2
	}
	fmt.Fprintln(w, formatImportSummary(result, importOutput))
	return 0
}

// formatImportSummary counts what was extracted
func formatImportSummary(r *models.ImportResult, dest string) string {
	return fmt.Sprintf(`Applications:   %d
Databases:      %d
SAP:            %d
Microservices:  %d
Mobile apps:    %d
Network tests:  %d
Written to %s`,
		len(r.Applications), len(r.Databases), len(r.SAPApps), len(r.Microservices),
		len(r.MobileApps), len(r.ThousandEyesTests), dest)
}
