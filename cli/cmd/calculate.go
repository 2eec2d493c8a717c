// ABOUTME: Calculate command for the licensecalc CLI
// ABOUTME: Sizes infrastructure licenses and optionally gates on a core budget

package cmd

import (
	"context"
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
	"github.com/ulix1808/AppdyLicCalc/models"
)

var (
	calculateFile string
	maxCores      int
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate infrastructure licenses",
	Long: `Calculate infrastructure license cores and RUM units for an inventory.

The inventory is read from a JSON file or a sizing workbook (.xlsx).

Exit codes:
  0 - Calculated (and within --max-cores when set)
  1 - Total infrastructure cores exceed --max-cores
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCalculate(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	calculateCmd.Flags().StringVarP(&calculateFile, "file", "f", "", "Inventory JSON or sizing workbook")
	calculateCmd.Flags().IntVar(&maxCores, "max-cores", 0, "Fail when total infrastructure cores exceed this budget (0 disables)")
}

// runCalculate executes the calculation and returns exit code
func runCalculate(ctx context.Context, w io.Writer) int {
	if maxCores < 0 {
		fmt.Fprintln(w, "Error: --max-cores must not be negative")
		return 2
	}

	c := client.New(GetAPIURL())

	input, err := readInput(ctx, c, calculateFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	resp, err := c.CalculateLicenses(ctx, input.CalculateRequest)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	within := maxCores == 0 || resp.Result.TotalInfrastructureCores <= maxCores

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCalculateJSON(resp, within))
	} else {
		fmt.Fprintln(w, formatCalculateHuman(resp.Result))
		if maxCores > 0 {
			fmt.Fprintln(w, formatBudget(resp.Result.TotalInfrastructureCores, maxCores))
		}
	}

	if !within {
		return 1
	}
	return 0
}

// formatCalculateHuman renders the license summary as a table
func formatCalculateHuman(r models.LicenseSummary) string {
	rows := [][]string{
		{"APM", strconv.Itoa(r.APMCores)},
		{"Database", strconv.Itoa(r.DatabaseCores)},
		{"SAP", strconv.Itoa(r.SAPCores)},
		{"Microservices", strconv.Itoa(r.MicroservicesContainers)},
		{"Server visibility only", strconv.Itoa(r.ServerVisibilityOnlyCores)},
		{"Secure App", strconv.Itoa(r.SecureAppCores)},
		{"Total infrastructure", strconv.Itoa(r.TotalInfrastructureCores)},
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Infrastructure licenses"))
	sb.WriteString("\n")
	sb.WriteString(styles.Table([]string{"Component", "Cores"}, rows, 1))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Server visibility instances: %d\n", r.ServerVisibilityInstances)
	fmt.Fprintf(&sb, "RUM browser: %d pageviews/month, %d tokens/year, %s units\n",
		r.RUMBrowserPageviewsMonthly, r.RUMBrowserTokensAnnual, formatUnits(r.RUMBrowserUnits))
	fmt.Fprintf(&sb, "RUM mobile:  %d active agents, %d tokens/month, %s units",
		r.RUMMobileActiveAgents, r.RUMMobileTokensMonthly, formatUnits(r.RUMMobileUnits))
	return sb.String()
}

// formatBudget reports the core budget check
func formatBudget(total, budget int) string {
	if total <= budget {
		return styles.StatusOK.Render("✓") + fmt.Sprintf(" Within budget: %d of %d cores", total, budget)
	}
	return styles.StatusCritical.Render("✗") + fmt.Sprintf(" Over budget: %d cores exceeds %d", total, budget)
}

// formatCalculateJSON renders the full response plus the budget status
func formatCalculateJSON(resp *models.LicenseResponse, within bool) string {
	out := map[string]any{
		"result":  resp.Result,
		"details": resp.Details,
	}
	if maxCores > 0 {
		status := "passed"
		if !within {
			status = "failed"
		}
		out["budget"] = map[string]any{"max_cores": maxCores, "status": status}
	}
	return toJSON(out)
}

func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
