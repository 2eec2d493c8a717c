// ABOUTME: Catalog command for the licensecalc CLI
// ABOUTME: Lists network-test kinds, form guidance and thresholds

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ulix1808/AppdyLicCalc/cli/internal/client"
	"github.com/ulix1808/AppdyLicCalc/cli/internal/styles"
	"github.com/ulix1808/AppdyLicCalc/models"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List network-test kinds",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCatalog(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(ctx context.Context, w io.Writer) int {
	help, err := client.New(GetAPIURL()).Catalog(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, toJSON(help))
	} else {
		fmt.Fprintln(w, formatCatalogHuman(help))
	}
	return 0
}

func formatCatalogHuman(help *models.NetworkTestHelp) string {
	rows := make([][]string, 0, len(help.TestTypes))
	for _, info := range help.TestTypes {
		timeout := ""
		if info.UsesTimeout {
			timeout = "yes"
		}
		rows = append(rows, []string{info.Value, info.Name, info.Scope, timeout})
	}

	th := help.Thresholds
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Network test kinds"))
	sb.WriteString("\n")
	sb.WriteString(styles.Table([]string{"Value", "Name", "Scope", "Timeout"}, rows))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Interval: %d-%d min. %s\n", th.MinIntervalMinutes, th.MaxIntervalMinutes, help.Interval)
	fmt.Fprintf(&sb, "Timeout:  %d-%d s. %s\n", th.MinTimeoutSeconds, th.MaxTimeoutSeconds, help.Timeout)
	fmt.Fprintf(&sb, "Agents:   %s\n", help.Agents)
	fmt.Fprintf(&sb, "Agent type: %s\n", help.AgentType)
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Units are projected over %d days", th.ProjectionDays)))
	return sb.String()
}
