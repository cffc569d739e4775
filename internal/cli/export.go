package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/mithaq/internal/export"
)

func newExportCmd(opts *options) *cobra.Command {
	var format, kind, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tasks and scores to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "csv":
				if kind != "scores" && kind != "tasks" {
					return fmt.Errorf("unknown kind %q (want scores or tasks)", kind)
				}
			case "json":
			default:
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			return withSession(cmd, opts, func(s *session) error {
				date := s.Clock.Now().Format("2006-01-02")
				path := out
				var err error
				switch {
				case format == "json":
					if path == "" {
						path = fmt.Sprintf("mithaq-export-%s.json", date)
					}
					err = export.ToJSON(s.Detector.Current().String(), s.Tasks.All(), s.Store.WeeklyScores(), path)
				case kind == "tasks":
					if path == "" {
						path = fmt.Sprintf("mithaq-tasks-%s.csv", date)
					}
					err = export.TasksToCSV(s.Tasks.All(), path)
				default:
					if path == "" {
						path = fmt.Sprintf("mithaq-scores-%s.csv", date)
					}
					err = export.ScoresToCSV(s.Store.WeeklyScores(), path)
				}
				if err != nil {
					return err
				}
				s.log.Infow("exported", "format", format, "path", path)
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv|json)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "scores", "what to export as CSV (scores|tasks)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default mithaq-<kind>-<date> in the current directory)")
	return cmd
}
