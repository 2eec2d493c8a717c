// ABOUTME: Inventory command for the licensecalc CLI
// ABOUTME: Lists vSphere VMs as server-visibility-only assets

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

var inventoryPattern string

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Discover servers from vSphere",
	Long: `List running vSphere VMs as server-visibility-only assets. With --json the
output is a calculation request that "calculate -f" accepts.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runInventory(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.Flags().StringVar(&inventoryPattern, "pattern", "", "VM name pattern, e.g. web-*")
}

func runInventory(ctx context.Context, w io.Writer) int {
	resp, err := client.New(GetAPIURL()).DiscoverInventory(ctx, inventoryPattern)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, toJSON(models.CalculateRequest{ServerVisibilityOnly: resp.ServerVisibilityOnly}))
		return 0
	}

	rows := make([][]string, 0, len(resp.ServerVisibilityOnly))
	for _, s := range resp.ServerVisibilityOnly {
		rows = append(rows, []string{s.Name, s.CoresPerNode.Text(), s.OS})
	}
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("vSphere servers matching %q", resp.Pattern)))
	sb.WriteString("\n")
	sb.WriteString(styles.Table([]string{"Name", "Cores", "OS"}, rows, 1))
	if resp.Cached {
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render("served from cache"))
	}
	fmt.Fprintln(w, sb.String())
	return 0
}
