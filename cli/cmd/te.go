// ABOUTME: Network-test command for the licensecalc CLI
// ABOUTME: Computes ThousandEyes units from a file or the interactive wizard

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ulix1808/AppdyLicCalc/cli/internal/client"
	"github.com/ulix1808/AppdyLicCalc/cli/internal/styles"
	"github.com/ulix1808/AppdyLicCalc/cli/internal/wizard"
	"github.com/ulix1808/AppdyLicCalc/models"
)

var (
	teFile        string
	teInteractive bool
)

// runWizard is swapped in tests
var runWizard = wizard.Run

var teCmd = &cobra.Command{
	Use:     "te",
	Aliases: []string{"network-tests"},
	Short:   "Calculate network-test units",
	Long: `Calculate ThousandEyes units for a set of network tests projected over
a 31-day month.

Tests are read from a JSON file (an object with "thousandeyes_tests" or a
bare array), from a sizing workbook, or entered with --interactive.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNetworkTests(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(teCmd)
	teCmd.Flags().StringVarP(&teFile, "file", "f", "", "Tests JSON or sizing workbook")
	teCmd.Flags().BoolVarP(&teInteractive, "interactive", "i", false, "Enter tests with the interactive wizard")
}

// runNetworkTests executes the network-test calculation and returns exit code
func runNetworkTests(ctx context.Context, w io.Writer) int {
	if teInteractive == (teFile != "") {
		fmt.Fprintln(w, "Error: use exactly one of --file or --interactive")
		return 2
	}

	c := client.New(GetAPIURL())

	var tests []models.NetworkTestInput
	if teInteractive {
		help, err := c.Catalog(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		tests, err = runWizard(*help)
		if errors.Is(err, wizard.ErrCancelled) {
			fmt.Fprintln(w, "Cancelled")
			return 2
		}
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	} else {
		input, err := readInput(ctx, c, teFile)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		tests = input.ThousandEyesTests
	}

	if len(tests) == 0 {
		fmt.Fprintln(w, "Error: no network tests found")
		return 2
	}

	result, err := c.CalculateNetworkTests(ctx, models.NetworkTestRequest{Tests: tests})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, toJSON(result))
	} else {
		fmt.Fprintln(w, formatNetworkTestsHuman(result))
	}
	return 0
}

// formatNetworkTestsHuman renders per-test units and the total
func formatNetworkTestsHuman(r *models.NetworkTestResult) string {
	rows := make([][]string, 0, len(r.Tests))
	for _, t := range r.Tests {
		timeout := "-"
		if t.TimeoutSeconds != nil {
			timeout = strconv.Itoa(*t.TimeoutSeconds) + "s"
		}
		rows = append(rows, []string{
			t.TestType,
			t.ResolvedType,
			strconv.Itoa(t.IntervalMinutes) + " min",
			strconv.Itoa(t.NumAgents),
			t.AgentType,
			timeout,
			strconv.Itoa(t.Units),
		})
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Network test units"))
	sb.WriteString("\n")
	sb.WriteString(styles.Table([]string{"Test", "Kind", "Interval", "Agents", "Agent type", "Timeout", "Units"}, rows, 3, 6))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total: %s units over %d days", styles.ValueStyle.Render(strconv.Itoa(r.TotalUnits)), r.ProjectionDays)
	return sb.String()
}
