package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"pctracer-svc/src/internal/report"

	"github.com/spf13/cobra"
)

var (
	filter     report.Filter
	topN       int
	jsonOutput bool
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Show filtered activity records and the most used applications",
	Long: `Fetches activity records and applies the same filters as the dashboard's
activities page: user, applications, duration range in a unit, and a date range.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter.Unit = report.NormalizeUnit(filter.Unit)

		records, err := client.Times(cmd.Context(), filter.User)
		if err != nil {
			return fmt.Errorf("failed to load activities: %w", err)
		}

		filtered, err := report.Apply(records, filter)
		if err != nil {
			return err
		}

		rows := report.Rows(filtered, filter.Unit)
		top := report.TopApps(filtered, topN)

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, struct {
				Rows []report.Row      `json:"rows"`
				Top  []report.AppShare `json:"top"`
			}{rows, top})
		}
		return printReport(out, rows, top, filter.Unit)
	},
}

func printReport(out io.Writer, rows []report.Row, top []report.AppShare, unit string) error {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No activities found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "APPLICATION\tSTART\tEND\tDURATION")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n", r.App, r.Start, r.End, report.FormatAmount(r.Duration), r.Unit)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTop %d applications\n", len(top))
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, share := range top {
		fmt.Fprintf(w, "%s\t%s %s\t%s%%\n",
			share.App,
			report.FormatAmount(report.ConvertDuration(share.Seconds, unit)),
			unit,
			report.FormatAmount(share.Percentage))
	}
	return w.Flush()
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func init() {
	flags := activitiesCmd.Flags()
	flags.StringVarP(&filter.User, "user", "u", "", "only this user")
	flags.StringSliceVarP(&filter.Apps, "app", "a", nil, "only these applications (repeatable)")
	flags.Float64Var(&filter.Min, "min", 0, "minimum duration in --unit")
	flags.Float64Var(&filter.Max, "max", 0, "maximum duration in --unit (0 for none)")
	flags.StringVar(&filter.Unit, "unit", report.UnitSecond, "duration unit: second, minute, hour or day")
	flags.StringVar(&filter.From, "from", "", "earliest start (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	flags.StringVar(&filter.To, "to", "", "latest end (a date covers the whole day)")
	flags.IntVar(&topN, "top", report.TopAppsLimit, "number of applications in the summary")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
}
