package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/mithaq/internal/week"
)

func newRolloverCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Close last week if today is Saturday and it is still open",
		Long: "rollover records last week's score, unchecks every task and resets the pomodoro count. " +
			"It only acts on a Saturday and at most once per week.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(opts, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			score, ok := s.Detector.CheckWeekEnd()
			if !ok {
				now := s.Clock.Now()
				if now.Weekday() != week.StartDay {
					fmt.Fprintf(w, "Nothing to do: weeks close on %s\n", week.StartDay)
				} else {
					fmt.Fprintf(w, "Nothing to do: week %s is already open\n", week.Of(now))
				}
				return nil
			}
			fmt.Fprintf(w, "%s %s: %d%% done, %d pomodoros\n",
				okStyle.Render("Closed week"), score.ID, score.CompletionPercentage, score.PomodoroCount)
			return nil
		},
	}
}
