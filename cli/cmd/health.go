// ABOUTME: Health command for the licensecalc CLI
// ABOUTME: Checks backend connectivity and service status

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

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the license calculator backend and show which rates it uses.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	vsphere := "not configured"
	if resp.VSphereConfigured {
		vsphere = "configured"
	}
	return fmt.Sprintf(`Backend:  %s
Status:   %s
Rates:    %s
vSphere:  %s`, url, resp.Status, resp.RatesSource, vsphere)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *models.HealthResponse) string {
	return toJSON(map[string]any{
		"backend":            url,
		"status":             resp.Status,
		"rates_source":       resp.RatesSource,
		"vsphere_configured": resp.VSphereConfigured,
	})
}
