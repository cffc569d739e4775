package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/mithaq/internal/store"
	"github.com/sadopc/mithaq/internal/tasks"
)

var errAmbiguousID = errors.New("id prefix matches more than one task")

func newTaskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage this week's tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(opts),
		newTaskListCmd(opts),
		newTaskToggleCmd(opts),
		newTaskEditCmd(opts),
		newTaskRemoveCmd(opts),
		newTaskCopyCmd(opts),
		newTaskSortCmd(opts),
		newTaskUncheckCmd(opts),
	)
	return cmd
}

// withSession opens a one-shot session for the duration of fn, closing
// last week first when today starts a new one.
func withSession(cmd *cobra.Command, opts *options, fn func(s *session) error) error {
	s, err := open(opts, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	if score, ok := s.Detector.CheckWeekEnd(); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %d%% done, %d pomodoros\n",
			okStyle.Render("Closed week"), score.ID, score.CompletionPercentage, score.PomodoroCount)
	}
	return fn(s)
}

func parseDayFlag(v string) (store.Day, error) {
	d, ok := store.ParseDay(v)
	if !ok {
		return "", fmt.Errorf("%w: %q", tasks.ErrInvalidDay, v)
	}
	return d, nil
}

func parsePriorityFlag(v string) (store.Priority, error) {
	p, ok := store.ParsePriority(v)
	if !ok {
		return "", fmt.Errorf("%w: %q", tasks.ErrInvalidPriority, v)
	}
	return p, nil
}

// resolveID accepts a full task id or a unique prefix of one.
func resolveID(svc *tasks.Service, ref string) (string, error) {
	if _, ok := svc.Get(ref); ok {
		return ref, nil
	}
	var match string
	for _, t := range svc.All() {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", errAmbiguousID, ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", tasks.ErrNotFound, ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTask(w io.Writer, t store.Task) {
	check := "[ ]"
	if t.Completed {
		check = okStyle.Render("[x]")
	}
	fmt.Fprintf(w, "  %s %s %-6s %s\n", mutedStyle.Render(shortID(t.ID)), check, t.Priority, t.Title)
}

func newTaskAddCmd(opts *options) *cobra.Command {
	var day, priority string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(s *session) error {
				d := store.DayOf(s.Clock.Now().Weekday())
				if day != "" {
					if d, err = parseDayFlag(day); err != nil {
						return err
					}
				}
				t, err := s.Tasks.Add(strings.Join(args, " "), d, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", shortID(t.ID), t.Day)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&day, "day", "d", "", "day of the week (default today)")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(store.PriorityMedium), "priority (low|medium|high)")
	return cmd
}

func newTaskListCmd(opts *options) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks by day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days := store.Days
			if day != "" {
				d, err := parseDayFlag(day)
				if err != nil {
					return err
				}
				days = []store.Day{d}
			}
			return withSession(cmd, opts, func(s *session) error {
				w := cmd.OutOrStdout()
				if day == "" && len(s.Tasks.All()) == 0 {
					fmt.Fprintln(w, mutedStyle.Render("No tasks this week"))
					return nil
				}
				for _, d := range days {
					items := s.Tasks.ByDay(d)
					if len(items) == 0 && day == "" {
						continue
					}
					fmt.Fprintf(w, "%s %s\n", headStyle.Render(string(d)), mutedStyle.Render(fmt.Sprintf("%d%%", s.Tasks.DayProgress(d))))
					for _, t := range items {
						printTask(w, t)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&day, "day", "d", "", "only this day")
	return cmd
}

func newTaskToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				id, err := resolveID(s.Tasks, args[0])
				if err != nil {
					return err
				}
				t, err := s.Tasks.Toggle(id)
				if err != nil {
					return err
				}
				printTask(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}
}

func newTaskEditCmd(opts *options) *cobra.Command {
	var title, day, priority string
	var done bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, day, priority or completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p tasks.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("day") {
				d, err := parseDayFlag(day)
				if err != nil {
					return err
				}
				p.Day = &d
			}
			if flags.Changed("priority") {
				pr, err := parsePriorityFlag(priority)
				if err != nil {
					return err
				}
				p.Priority = &pr
			}
			if flags.Changed("done") {
				p.Completed = &done
			}
			return withSession(cmd, opts, func(s *session) error {
				id, err := resolveID(s.Tasks, args[0])
				if err != nil {
					return err
				}
				t, err := s.Tasks.Edit(id, p)
				if err != nil {
					return err
				}
				printTask(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&day, "day", "d", "", "move to day")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().BoolVar(&done, "done", false, "set completion (--done=false to clear)")
	return cmd
}

func newTaskRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				id, err := resolveID(s.Tasks, args[0])
				if err != nil {
					return err
				}
				if err := s.Tasks.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
				return nil
			})
		},
	}
}

func newTaskCopyCmd(opts *options) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "copy <id>... --to <day>",
		Short: "Copy tasks to another day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseDayFlag(to)
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(s *session) error {
				ids := make([]string, 0, len(args))
				for _, ref := range args {
					id, err := resolveID(s.Tasks, ref)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				copies, err := s.Tasks.Copy(ids, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied %d task(s) to %s\n", len(copies), target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target day")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTaskSortCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort tasks by priority, open tasks first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.Tasks.Sort()
				fmt.Fprintln(cmd.OutOrStdout(), "Tasks sorted")
				return nil
			})
		},
	}
}

func newTaskUncheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "uncheck",
		Short: "Mark every task not done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.Tasks.UncheckAll()
				fmt.Fprintln(cmd.OutOrStdout(), "All tasks unchecked")
				return nil
			})
		},
	}
}
