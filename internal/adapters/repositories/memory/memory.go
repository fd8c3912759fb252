package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/iwtcode/bambuService/internal/domain/entities"
	"github.com/iwtcode/bambuService/internal/interfaces"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	"github.com/google/uuid"
)

// Repository - резервная реализация истории заданий в памяти процесса.
// Используется при DB_ENABLE=false, чтобы сервис работал без Postgres.
type Repository struct {
	mu   sync.RWMutex
	jobs map[string]*entities.PrintJob
}

func NewRepository() interfaces.PrintJobRepository {
	return &Repository{jobs: make(map[string]*entities.PrintJob)}
}

func (r *Repository) Create(job *entities.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *Repository) GetByName(name string) (*entities.PrintJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *entities.PrintJob
	for _, j := range r.jobs {
		if j.Name != name {
			continue
		}
		if found == nil || j.StartedAt.After(found.StartedAt) {
			found = j
		}
	}
	if found == nil {
		return nil, apperrors.ErrDataNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *Repository) UpdateWeight(name string, weightGrams float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	updated := false
	for _, j := range r.jobs {
		if j.Name == name && j.Status == entities.JobStatusPrinting {
			j.WeightGrams = weightGrams
			updated = true
		}
	}
	if !updated {
		return apperrors.ErrDataNotFound
	}
	return nil
}

func (r *Repository) FinishActive(lastStage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, j := range r.jobs {
		if j.Status == entities.JobStatusPrinting {
			j.Status = entities.JobStatusFinished
			j.LastStage = lastStage
			t := now
			j.FinishedAt = &t
		}
	}
	return nil
}

func (r *Repository) GetAll() ([]entities.PrintJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.PrintJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].StartedAt.After(out[k].StartedAt) })
	return out, nil
}
