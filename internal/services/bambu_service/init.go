package bambu_service

import (
	"os"
	"sync"

	"github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	"github.com/iwtcode/bambuService/internal/services/obs_service"
)

// ShutdownFunc запрашивает корректную остановку приложения.
type ShutdownFunc func()

// bambuService - ядро сервиса: принимает события транспорта телеметрии,
// обновляет оверлей и управляет жизненным циклом стрима.
type bambuService struct {
	cfg      *config.AppConfig
	log      *logging.Logger
	obs      interfaces.Compositor
	registry *obs_service.OverlayRegistry
	files    interfaces.FileStore
	producer interfaces.TelemetryPublisher
	repo     interfaces.PrintJobRepository
	shutdown ShutdownFunc

	mu        sync.Mutex
	handles   *models.OverlayHandles
	state     models.TelemetryState
	lastStage *models.PrintStage
	batch     *delayedBatch

	transport interfaces.PrinterTransport
}

func NewBambuService(
	cfg *config.AppConfig,
	logger *logging.Logger,
	obs interfaces.Compositor,
	registry *obs_service.OverlayRegistry,
	transport interfaces.PrinterTransport,
	files interfaces.FileStore,
	producer interfaces.TelemetryPublisher,
	repo interfaces.PrintJobRepository,
	shutdown ShutdownFunc,
) interfaces.BambuService {
	return &bambuService{
		cfg:       cfg,
		log:       logger.WithPrefix("bambu"),
		obs:       obs,
		registry:  registry,
		transport: transport,
		files:     files,
		producer:  producer,
		repo:      repo,
		shutdown:  shutdown,
		batch:     newDelayedBatch(),
	}
}

// InitializeOverlay приводит сцену к рабочему состоянию. До первого
// успешного вызова сообщения телеметрии отбрасываются.
func (s *bambuService) InitializeOverlay() error {
	if err := os.MkdirAll(s.cfg.App.ImagesDir, 0o755); err != nil {
		return err
	}

	handles, err := s.registry.InitializeAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.handles = handles
	s.mu.Unlock()

	if s.cfg.Obs.StartStreamOnStartup {
		active, err := s.obs.IsStreamActive()
		if err != nil {
			return err
		}
		if !active {
			s.log.Info("Starting stream on startup")
			if err := s.obs.StartStream(); err != nil {
				return err
			}
		}
	}
	return nil
}

// DumpSceneItems логирует настройки видео и все входы сцены.
func (s *bambuService) DumpSceneItems() error {
	settings, err := s.obs.GetVideoSettings()
	if err != nil {
		return err
	}
	s.log.Info("Video settings",
		"base_width", settings.BaseWidth,
		"base_height", settings.BaseHeight,
		"output_width", settings.OutputWidth,
		"output_height", settings.OutputHeight,
	)
	return obs_service.DumpSceneItems(s.obs, s.log)
}

// currentHandles возвращает набор элементов оверлея, nil до инициализации.
func (s *bambuService) currentHandles() *models.OverlayHandles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles
}
