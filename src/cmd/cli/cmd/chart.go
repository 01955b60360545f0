package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var charts = []string{
	"pie-app-time",
	"bar-app-usage",
	"timeline-activity",
	"area-app-flow",
	"heatmap-hourly-activity",
	"donut-idle-ratio",
	"calendar-heatmap",
	"sankey-app-flow",
	"stackedbar-user-app",
	"line-daily-session",
}

var chartUser string

var chartCmd = &cobra.Command{
	Use:       "chart <name>",
	Short:     "Print the data behind a dashboard chart",
	Long:      "Prints the JSON rows of a chart endpoint. Available charts: " + strings.Join(charts, ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: charts,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !slices.Contains(charts, name) {
			return fmt.Errorf("unknown chart %q, expected one of: %s", name, strings.Join(charts, ", "))
		}

		raw, err := client.Chart(cmd.Context(), name, chartUser)
		if err != nil {
			return fmt.Errorf("failed to load chart: %w", err)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return fmt.Errorf("malformed chart data: %w", err)
		}
		pretty.WriteByte('\n')
		_, err = cmd.OutOrStdout().Write(pretty.Bytes())
		return err
	},
}

func init() {
	chartCmd.Flags().StringVarP(&chartUser, "user", "u", "", "only this user")
}
