package print_job

import (
	"errors"
	"time"

	"github.com/iwtcode/bambuService/internal/domain/entities"
	"github.com/iwtcode/bambuService/internal/interfaces"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type printJobRepository struct {
	db *gorm.DB
}

// NewPrintJobRepository создает репозиторий истории заданий печати.
func NewPrintJobRepository(db *gorm.DB) interfaces.PrintJobRepository {
	return &printJobRepository{db: db}
}

func (r *printJobRepository) Create(job *entities.PrintJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	return r.db.Create(job).Error
}

func (r *printJobRepository) GetByName(name string) (*entities.PrintJob, error) {
	var job entities.PrintJob
	err := r.db.
		Where("name = ?", name).
		Order("started_at DESC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDataNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *printJobRepository) UpdateWeight(name string, weightGrams float64) error {
	return r.db.
		Model(&entities.PrintJob{}).
		Where("name = ? AND status = ?", name, entities.JobStatusPrinting).
		Update("weight_grams", weightGrams).Error
}

func (r *printJobRepository) FinishActive(lastStage string) error {
	now := time.Now().UTC()
	return r.db.
		Model(&entities.PrintJob{}).
		Where("status = ?", entities.JobStatusPrinting).
		Updates(map[string]interface{}{
			"status":      entities.JobStatusFinished,
			"last_stage":  lastStage,
			"finished_at": &now,
		}).Error
}

func (r *printJobRepository) GetAll() ([]entities.PrintJob, error) {
	var jobs []entities.PrintJob
	err := r.db.Order("started_at DESC").Find(&jobs).Error
	return jobs, err
}
