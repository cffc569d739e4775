package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/mithaq/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Week       string      `json:"week"`
	Tasks      []jsonTask  `json:"tasks"`
	Scores     []jsonScore `json:"scores"`
}

type jsonTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Day       string `json:"day"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

type jsonScore struct {
	ID                   string `json:"id"`
	Year                 int    `json:"year"`
	WeekNumber           int    `json:"week_number"`
	CompletionPercentage int    `json:"completion_percentage"`
	PomodoroCount        int    `json:"pomodoro_count"`
	EndDate              string `json:"end_date"`
}

// ToJSON writes a pretty-printed snapshot of the current week's tasks and
// the score history. week labels the week the tasks belong to.
func ToJSON(week string, tasks []store.Task, scores []store.WeeklyScore, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Week:       week,
		Tasks:      make([]jsonTask, 0, len(tasks)),
		Scores:     make([]jsonScore, 0, len(scores)),
	}
	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:        t.ID,
			Title:     t.Title,
			Day:       string(t.Day),
			Priority:  string(t.Priority),
			Completed: t.Completed,
		})
	}
	for _, s := range scores {
		export.Scores = append(export.Scores, jsonScore{
			ID:                   s.ID,
			Year:                 s.Year,
			WeekNumber:           s.WeekNumber,
			CompletionPercentage: s.CompletionPercentage,
			PomodoroCount:        s.PomodoroCount,
			EndDate:              s.EndDate.UTC().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
