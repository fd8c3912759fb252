package interfaces

import (
	"github.com/iwtcode/bambuService/internal/domain/entities"
)

// PrintJobRepository определяет контракт для работы с историей заданий печати.
type PrintJobRepository interface {
	Create(job *entities.PrintJob) error
	GetByName(name string) (*entities.PrintJob, error)
	UpdateWeight(name string, weightGrams float64) error
	FinishActive(lastStage string) error
	GetAll() ([]entities.PrintJob, error)
}
