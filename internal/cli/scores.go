package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScoresCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show scores of finished weeks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				w := cmd.OutOrStdout()
				scores := s.Store.WeeklyScores()
				if len(scores) == 0 {
					fmt.Fprintln(w, mutedStyle.Render("No finished weeks yet"))
					return nil
				}
				fmt.Fprintln(w, headStyle.Render(fmt.Sprintf("%-9s %10s %9s  %s", "WEEK", "COMPLETION", "POMODOROS", "CLOSED")))
				shown := 0
				for i := len(scores) - 1; i >= 0; i-- {
					if limit > 0 && shown == limit {
						break
					}
					sc := scores[i]
					fmt.Fprintf(w, "%-9s %9d%% %9d  %s\n", sc.ID, sc.CompletionPercentage, sc.PomodoroCount,
						sc.EndDate.Local().Format("2006-01-02"))
					shown++
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n weeks (0 for all)")
	return cmd
}
