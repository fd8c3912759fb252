package bambu_service

import (
	"sync"
	"testing"

	"github.com/iwtcode/bambuService/internal/adapters/repositories/memory"
	appconfig "github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	"github.com/iwtcode/bambuService/internal/services/kafka"
	"github.com/iwtcode/bambuService/internal/services/obs_service"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"
)

// stubCompositor - минимальная заглушка Compositor для тестов ядра.
type stubCompositor struct {
	mu           sync.Mutex
	inputs       map[string]map[string]interface{}
	streamActive bool
	startCalls   int
	stopCalls    int
}

func newStubCompositor() *stubCompositor {
	return &stubCompositor{inputs: make(map[string]map[string]interface{})}
}

func (f *stubCompositor) addInput(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs[name] = map[string]interface{}{}
}

func (f *stubCompositor) setting(name, key string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inputs[name][key]
}

func (f *stubCompositor) Connect() error    { return nil }
func (f *stubCompositor) Disconnect() error { return nil }
func (f *stubCompositor) IsConnected() bool { return true }

func (f *stubCompositor) SceneExists(string) (bool, error) { return true, nil }
func (f *stubCompositor) CreateScene(string) error         { return nil }
func (f *stubCompositor) SetCurrentScene(string) error     { return nil }

func (f *stubCompositor) InputExists(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.inputs[name]
	return ok, nil
}

func (f *stubCompositor) CreateInput(_, input, _ string, settings map[string]interface{}) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs[input] = settings
	return len(f.inputs), nil
}

func (f *stubCompositor) GetInputSettings(name string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.inputs[name]
	if !ok {
		return nil, apperrors.ErrElementNotFound
	}
	return in, nil
}

func (f *stubCompositor) SetInputSettings(name string, settings map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.inputs[name]
	if !ok {
		return apperrors.ErrElementNotFound
	}
	for k, v := range settings {
		in[k] = v
	}
	return nil
}

func (f *stubCompositor) RemoveInput(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inputs, name)
	return nil
}

func (f *stubCompositor) GetInputList() ([]models.InputInfo, error) { return nil, nil }

func (f *stubCompositor) GetSceneItemID(string, string) (int, error) { return 1, nil }
func (f *stubCompositor) SetSceneItemTransform(string, int, models.SceneItemTransform) error {
	return nil
}
func (f *stubCompositor) GetSceneItemTransform(string, int) (*models.SceneItemTransform, error) {
	return &models.SceneItemTransform{}, nil
}
func (f *stubCompositor) SetSceneItemIndex(string, int, int) error  { return nil }
func (f *stubCompositor) SetSceneItemLocked(string, int, bool) error { return nil }

func (f *stubCompositor) GetMediaState(string) (string, error) {
	return "OBS_MEDIA_STATE_PLAYING", nil
}

func (f *stubCompositor) IsStreamActive() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamActive, nil
}

func (f *stubCompositor) StartStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamActive = true
	f.startCalls++
	return nil
}

func (f *stubCompositor) StopStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamActive = false
	f.stopCalls++
	return nil
}

func (f *stubCompositor) GetVideoSettings() (*models.VideoSettings, error) {
	return &models.VideoSettings{}, nil
}
func (f *stubCompositor) SetVideoSettings(models.VideoSettings) error { return nil }

// fakeFileStore отдает фиксированные превью и вес, запоминая запрошенные пути.
type fakeFileStore struct {
	mu          sync.Mutex
	thumbCalls  []string
	weightCalls []string
	thumbnail   []byte
	weight      float64
}

func (f *fakeFileStore) ListDirectory(string) ([]models.RemoteFile, error) { return nil, nil }
func (f *fakeFileStore) DownloadFile(string) ([]byte, error)               { return nil, nil }
func (f *fakeFileStore) UploadFile(string, string) error                   { return nil }

func (f *fakeFileStore) GetFileThumbnail(remotePath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.thumbCalls = append(f.thumbCalls, remotePath)
	return f.thumbnail, nil
}

func (f *fakeFileStore) GetPrintJobWeight(remotePath string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weightCalls = append(f.weightCalls, remotePath)
	return f.weight, nil
}

func (f *fakeFileStore) thumbCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.thumbCalls)
}

var overlayElementNames = []string{
	obs_service.ChamberTempName, obs_service.BedTempName, obs_service.TargetBedTempName,
	obs_service.NozzleTempName, obs_service.TargetNozzleTempName, obs_service.PercentCompleteName,
	obs_service.LayersName, obs_service.TimeRemainingName, obs_service.SubtaskNameName,
	obs_service.StageName, obs_service.PartFanName, obs_service.AuxFanName,
	obs_service.ChamberFanName, obs_service.FilamentName, obs_service.PrintWeightName,
	obs_service.NozzleTempIconName, obs_service.BedTempIconName, obs_service.PartFanIconName,
	obs_service.AuxFanIconName, obs_service.ChamberFanIconName, obs_service.PreviewImageName,
}

func testHandles(previewPath string) *models.OverlayHandles {
	toggle := func(name, enabled, disabled string) models.ToggleIconHandle {
		return models.ToggleIconHandle{Name: name, EnabledIconPath: enabled, DisabledIconPath: disabled}
	}
	return &models.OverlayHandles{
		ChamberTemp:      models.TextHandle{Name: obs_service.ChamberTempName},
		BedTemp:          models.TextHandle{Name: obs_service.BedTempName},
		TargetBedTemp:    models.TextHandle{Name: obs_service.TargetBedTempName},
		NozzleTemp:       models.TextHandle{Name: obs_service.NozzleTempName},
		TargetNozzleTemp: models.TextHandle{Name: obs_service.TargetNozzleTempName},
		PercentComplete:  models.TextHandle{Name: obs_service.PercentCompleteName},
		Layers:           models.TextHandle{Name: obs_service.LayersName},
		TimeRemaining:    models.TextHandle{Name: obs_service.TimeRemainingName},
		SubtaskName:      models.TextHandle{Name: obs_service.SubtaskNameName},
		Stage:            models.TextHandle{Name: obs_service.StageName},
		PartFan:          models.TextHandle{Name: obs_service.PartFanName},
		AuxFan:           models.TextHandle{Name: obs_service.AuxFanName},
		ChamberFan:       models.TextHandle{Name: obs_service.ChamberFanName},
		Filament:         models.TextHandle{Name: obs_service.FilamentName},
		PrintWeight:      models.TextHandle{Name: obs_service.PrintWeightName},

		NozzleTempIcon: toggle(obs_service.NozzleTempIconName, "nozzle_on.png", "nozzle_off.png"),
		BedTempIcon:    toggle(obs_service.BedTempIconName, "bed_on.png", "bed_off.png"),
		PartFanIcon:    toggle(obs_service.PartFanIconName, "fan_on.png", "fan_off.png"),
		AuxFanIcon:     toggle(obs_service.AuxFanIconName, "fan_on.png", "fan_off.png"),
		ChamberFanIcon: toggle(obs_service.ChamberFanIconName, "fan_on.png", "fan_off.png"),
		PreviewImage:   toggle(obs_service.PreviewImageName, previewPath, previewPath),
	}
}

func newTestService(t *testing.T) (*bambuService, *stubCompositor, *fakeFileStore, interfaces.PrintJobRepository) {
	t.Helper()

	cfg := &appconfig.AppConfig{
		Bambu: appconfig.BambuConfig{Serial: "00M00A000000000"},
		Obs:   appconfig.ObsConfig{StopStreamOnIdle: true},
		App:   appconfig.PolicyConfig{ImagesDir: t.TempDir()},
	}
	logger := logging.NewLogger(&logging.Config{Enabled: false}, "test")
	fake := newStubCompositor()
	for _, name := range overlayElementNames {
		fake.addInput(name)
	}
	files := &fakeFileStore{thumbnail: []byte("png"), weight: 15.5}
	repo := memory.NewRepository()

	s := &bambuService{
		cfg:      cfg,
		log:      logger,
		obs:      fake,
		registry: obs_service.NewOverlayRegistry(fake, cfg, logger),
		files:    files,
		producer: kafka.NewNoopProducer(),
		repo:     repo,
		shutdown: func() {},
		batch:    newDelayedBatch(),
		handles:  testHandles(cfg.PreviewImagePath()),
	}
	return s, fake, files, repo
}
