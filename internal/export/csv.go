package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/mithaq/internal/store"
)

// ScoresToCSV writes the weekly score history, oldest first.
func ScoresToCSV(scores []store.WeeklyScore, path string) error {
	header := []string{"Week", "Year", "Week Number", "Completion (%)", "Pomodoros", "End Date"}
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{
			s.ID,
			strconv.Itoa(s.Year),
			strconv.Itoa(s.WeekNumber),
			strconv.Itoa(s.CompletionPercentage),
			strconv.Itoa(s.PomodoroCount),
			s.EndDate.Local().Format(time.RFC3339),
		})
	}
	return writeCSV(path, header, rows)
}

// TasksToCSV writes the current week's tasks in collection order.
func TasksToCSV(tasks []store.Task, path string) error {
	header := []string{"ID", "Title", "Day", "Priority", "Completed"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			t.Title,
			string(t.Day),
			string(t.Priority),
			strconv.FormatBool(t.Completed),
		})
	}
	return writeCSV(path, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}
