package tracker

import "time"

type CreateGoalRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Deadline *time.Time `json:"deadline"`
}

type UpdateGoalRequest struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Completed bool       `json:"completed"`
	Deadline  *time.Time `json:"deadline"`
}

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	PlannedDate *time.Time `json:"plannedDate"`
}

type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type CreateJournalRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Mood    *string `json:"mood"`
}

type LogSessionRequest struct {
	DurationInSeconds int `json:"durationInSeconds"`
}
