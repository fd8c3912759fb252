package bambu_service

import (
	"sync"
	"time"

	"github.com/iwtcode/bambuService/internal/domain/models"
)

// Задержка перед выполнением отложенных действий по простою принтера.
const idleActionDelay = 5 * time.Second

// delayedBatch - пачка отложенных действий. Пока пачка не пуста, новые
// действия не ставятся: один переход в простой порождает ровно одну пачку.
type delayedBatch struct {
	mu      sync.Mutex
	actions []func()
}

func newDelayedBatch() *delayedBatch {
	return &delayedBatch{}
}

func (b *delayedBatch) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.actions) == 0
}

func (b *delayedBatch) Enqueue(action func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = append(b.actions, action)
}

// Arm запускает выполнение всех накопленных действий после задержки.
// Действия выполняются по порядку и до полного опустошения пачки.
func (b *delayedBatch) Arm(delay time.Duration) {
	time.AfterFunc(delay, func() {
		for {
			b.mu.Lock()
			if len(b.actions) == 0 {
				b.mu.Unlock()
				return
			}
			action := b.actions[0]
			b.actions = b.actions[1:]
			b.mu.Unlock()
			action()
		}
	})
}

// evaluateLifecycle реализует переходы стрима по стадии печати:
//   - переход из печати в Idle отмечает завершение задания;
//   - Idle ставит отложенные остановку стрима и/или выход из процесса;
//   - выход из Idle при пустой пачке сразу запускает стрим.
func (s *bambuService) evaluateLifecycle(p *models.Print) {
	stage := p.CurrentStage()
	defer func() {
		s.lastStage = &stage
	}()

	if stage == models.StageIdle && s.lastStage != nil && *s.lastStage != models.StageIdle {
		s.log.Info("Print complete!")
		if err := s.repo.FinishActive(models.StageText(*s.lastStage)); err != nil {
			s.log.Error("Failed to finish print job record", "error", err)
		}
	}

	if s.batch.Empty() {
		if stage == models.StageIdle && s.cfg.Obs.StopStreamOnIdle {
			active, err := s.obs.IsStreamActive()
			if err != nil {
				s.log.Error("Failed to get stream status", "error", err)
				return
			}
			if active {
				s.log.Info("Stopping stream in 5s")
				s.batch.Enqueue(func() {
					// Состояние могло измениться за время задержки:
					// остановка уже остановленного стрима - ошибка OBS
					active, err := s.obs.IsStreamActive()
					if err != nil {
						s.log.Error("Failed to get stream status", "error", err)
						return
					}
					if active {
						if err := s.obs.StopStream(); err != nil {
							s.log.Error("Failed to stop stream", "error", err)
						}
					}
				})
			}
		}

		if stage == models.StageIdle && s.cfg.App.ExitOnIdle {
			s.log.Info("Printer is idle. Exiting in 5s.")
			s.batch.Enqueue(func() { s.shutdown() })
		}

		if !s.batch.Empty() {
			s.batch.Arm(idleActionDelay)
		}
	}

	if s.batch.Empty() && stage != models.StageIdle && s.cfg.Obs.StartStreamOnStartup {
		active, err := s.obs.IsStreamActive()
		if err != nil {
			s.log.Error("Failed to get stream status", "error", err)
			return
		}
		if !active {
			s.log.Info("Printer has resumed printing. Starting stream.")
			if err := s.obs.StartStream(); err != nil {
				s.log.Error("Failed to start stream", "error", err)
			}
		}
	}
}
