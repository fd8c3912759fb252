package entities

import "time"

const (
	JobStatusPrinting = "printing"
	JobStatusFinished = "finished"
)

// PrintJob - запись истории заданий печати. Создается при смене subtask_name,
// закрывается на переходе стадии из печати в Idle.
type PrintJob struct {
	ID          string     `gorm:"primaryKey;not null" json:"id"`
	Name        string     `gorm:"not null;index" json:"name"`
	WeightGrams float64    `json:"weight_grams"`
	LastStage   string     `json:"last_stage"`
	Status      string     `gorm:"not null" json:"status"` // printing / finished
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
}
