package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/mithaq/internal/store"
)

func newProgressCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show completion per day and for the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				w := cmd.OutOrStdout()
				today := store.DayOf(s.Clock.Now().Weekday())

				fmt.Fprintln(w, headStyle.Render("Week "+s.Detector.Current().String()))
				for _, d := range store.Days {
					marker := " "
					if d == today {
						marker = ">"
					}
					fmt.Fprintf(w, "%s %-10s %3d%%  %s\n", marker, d, s.Tasks.DayProgress(d),
						mutedStyle.Render(fmt.Sprintf("(%d tasks)", len(s.Tasks.ByDay(d)))))
				}
				fmt.Fprintf(w, "  %-10s %3d%%\n", "overall", s.Tasks.OverallProgress())
				fmt.Fprintf(w, "  %-10s %4d\n", "pomodoros", s.Counter.Value())
				return nil
			})
		},
	}
}
