package obs_service

import (
	"sync"
	"testing"
	"time"

	appconfig "github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	id       int
	kind     string
	settings map[string]interface{}
}

// fakeCompositor - запоминающая заглушка Compositor для тестов реестра.
type fakeCompositor struct {
	mu           sync.Mutex
	scenes       map[string]bool
	currentScene string
	inputs       map[string]*fakeInput
	nextID       int
	indexes      map[int]int
	transforms   map[int]models.SceneItemTransform
	locked       map[int]bool
	createCalls  []string
	streamActive bool
	video        models.VideoSettings

	mediaState      string // пусто - сразу PLAYING
	mediaReadyAfter int
	mediaCalls      int
}

func newFakeCompositor() *fakeCompositor {
	return &fakeCompositor{
		scenes:     make(map[string]bool),
		inputs:     make(map[string]*fakeInput),
		indexes:    make(map[int]int),
		transforms: make(map[int]models.SceneItemTransform),
		locked:     make(map[int]bool),
		nextID:     1,
	}
}

func (f *fakeCompositor) Connect() error    { return nil }
func (f *fakeCompositor) Disconnect() error { return nil }
func (f *fakeCompositor) IsConnected() bool { return true }

func (f *fakeCompositor) SceneExists(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scenes[name], nil
}

func (f *fakeCompositor) CreateScene(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes[name] = true
	return nil
}

func (f *fakeCompositor) SetCurrentScene(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentScene = name
	return nil
}

func (f *fakeCompositor) InputExists(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.inputs[name]
	return ok, nil
}

func (f *fakeCompositor) CreateInput(scene, input, kind string, settings map[string]interface{}) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.inputs[input] = &fakeInput{id: id, kind: kind, settings: settings}
	f.createCalls = append(f.createCalls, input)
	return id, nil
}

func (f *fakeCompositor) GetInputSettings(name string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.inputs[name]
	if !ok {
		return nil, apperrors.ErrElementNotFound
	}
	return in.settings, nil
}

func (f *fakeCompositor) SetInputSettings(name string, settings map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.inputs[name]
	if !ok {
		return apperrors.ErrElementNotFound
	}
	for k, v := range settings {
		in.settings[k] = v
	}
	return nil
}

func (f *fakeCompositor) RemoveInput(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inputs, name)
	return nil
}

func (f *fakeCompositor) GetInputList() ([]models.InputInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]models.InputInfo, 0, len(f.inputs))
	for name, in := range f.inputs {
		list = append(list, models.InputInfo{Name: name, Kind: in.kind})
	}
	return list, nil
}

func (f *fakeCompositor) GetSceneItemID(scene, source string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.inputs[source]
	if !ok {
		return 0, apperrors.ErrElementNotFound
	}
	return in.id, nil
}

func (f *fakeCompositor) SetSceneItemTransform(scene string, itemID int, transform models.SceneItemTransform) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transforms[itemID] = transform
	return nil
}

func (f *fakeCompositor) GetSceneItemTransform(scene string, itemID int) (*models.SceneItemTransform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.transforms[itemID]
	return &t, nil
}

func (f *fakeCompositor) SetSceneItemIndex(scene string, itemID, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexes[itemID] = index
	return nil
}

func (f *fakeCompositor) SetSceneItemLocked(scene string, itemID int, lock bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked[itemID] = lock
	return nil
}

func (f *fakeCompositor) GetMediaState(input string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mediaCalls++
	if f.mediaState == "" || (f.mediaReadyAfter > 0 && f.mediaCalls > f.mediaReadyAfter) {
		return mediaStatePlaying, nil
	}
	return f.mediaState, nil
}

func (f *fakeCompositor) IsStreamActive() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamActive, nil
}

func (f *fakeCompositor) StartStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamActive = true
	return nil
}

func (f *fakeCompositor) StopStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamActive = false
	return nil
}

func (f *fakeCompositor) GetVideoSettings() (*models.VideoSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.video
	return &v, nil
}

func (f *fakeCompositor) SetVideoSettings(settings models.VideoSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.video = settings
	return nil
}

func testConfig() *appconfig.AppConfig {
	return &appconfig.AppConfig{
		Bambu: appconfig.BambuConfig{SDPPath: "./bambu.sdp"},
		Obs:   appconfig.ObsConfig{LockInputs: true},
		App:   appconfig.PolicyConfig{ImagesDir: "./images"},
	}
}

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false}, "test")
}

func TestEnsureTextElementIdempotent(t *testing.T) {
	fake := newFakeCompositor()
	registry := NewOverlayRegistry(fake, testConfig(), testLogger())

	def := models.TextSourceDef{Name: "BedTemp", DefaultX: 342, DefaultY: 1020}

	h1, err := registry.EnsureTextElement(def, 3)
	require.NoError(t, err)
	h2, err := registry.EnsureTextElement(def, 3)
	require.NoError(t, err)

	require.Equal(t, h1, h2)
	require.Len(t, fake.createCalls, 1, "повторный ensure не пересоздает элемент")
}

func TestEnsureTextElementForceRecreate(t *testing.T) {
	fake := newFakeCompositor()
	cfg := testConfig()
	cfg.Obs.ForceCreateInputs = true
	registry := NewOverlayRegistry(fake, cfg, testLogger())

	def := models.TextSourceDef{Name: "BedTemp", DefaultX: 342, DefaultY: 1020}

	_, err := registry.EnsureTextElement(def, 3)
	require.NoError(t, err)
	_, err = registry.EnsureTextElement(def, 3)
	require.NoError(t, err)

	require.Len(t, fake.createCalls, 2)
}

func TestToggleIconDriftCorrection(t *testing.T) {
	fake := newFakeCompositor()
	registry := NewOverlayRegistry(fake, testConfig(), testLogger())

	def := models.ToggleIconSourceDef{
		Name:             "PartFanIcon",
		EnabledIconPath:  "images/fan_icon.png",
		DisabledIconPath: "images/fan_off.png",
		Scale:            0.2,
	}

	// Существующий вход со сбившимся путем к иконке
	_, err := fake.CreateInput(SceneName, def.Name, imageInputType, map[string]interface{}{
		"file": "/old/location/fan_off.png",
	})
	require.NoError(t, err)
	fake.createCalls = nil

	handle, err := registry.EnsureToggleIconElement(def, 7)
	require.NoError(t, err)
	require.Empty(t, fake.createCalls, "элемент не пересоздается")

	settings, err := fake.GetInputSettings(def.Name)
	require.NoError(t, err)
	require.Equal(t, "images/fan_off.png", settings["file"])
	require.Equal(t, "images/fan_icon.png", handle.EnabledIconPath)
}

func TestEnsureVideoSourceWaitsForPlayback(t *testing.T) {
	fake := newFakeCompositor()
	fake.mediaState = "OBS_MEDIA_STATE_OPENING"
	fake.mediaReadyAfter = 3
	registry := NewOverlayRegistry(fake, testConfig(), testLogger())
	registry.mediaPollInterval = time.Millisecond

	require.NoError(t, registry.EnsureVideoSource())

	// Трансформация и z-индекс применяются только после начала воспроизведения
	id, err := fake.GetSceneItemID(SceneName, StreamSourceName)
	require.NoError(t, err)
	require.Equal(t, 0, fake.indexes[id])
	require.Equal(t, "OBS_BOUNDS_SCALE_INNER", fake.transforms[id].BoundsType)
}

func TestEnsureVideoSourcePollIsBounded(t *testing.T) {
	fake := newFakeCompositor()
	fake.mediaState = "OBS_MEDIA_STATE_OPENING"
	registry := NewOverlayRegistry(fake, testConfig(), testLogger())
	registry.mediaPollInterval = time.Millisecond

	err := registry.EnsureVideoSource()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OBS_MEDIA_STATE_OPENING")
	require.Equal(t, mediaPollAttempts, fake.mediaCalls, "опрос останавливается после исчерпания попыток")
}

func TestInitializeAllPinnedOrder(t *testing.T) {
	fake := newFakeCompositor()
	registry := NewOverlayRegistry(fake, testConfig(), testLogger())

	handles, err := registry.InitializeAll()
	require.NoError(t, err)
	require.NotNil(t, handles)

	// Видеопоток и подложка создаются первыми и прижаты к низу
	require.Equal(t, StreamSourceName, fake.createCalls[0])
	require.Equal(t, BackdropName, fake.createCalls[1])
	streamID, _ := fake.GetSceneItemID(SceneName, StreamSourceName)
	backdropID, _ := fake.GetSceneItemID(SceneName, BackdropName)
	require.Equal(t, 0, fake.indexes[streamID])
	require.Equal(t, 1, fake.indexes[backdropID])

	// Тексты идут в фиксированном порядке, затем иконки, затем превью
	wantOrder := []string{
		StreamSourceName, BackdropName,
		ChamberTempName, BedTempName, TargetBedTempName, NozzleTempName, TargetNozzleTempName,
		PercentCompleteName, LayersName, TimeRemainingName, SubtaskNameName, StageName,
		PartFanName, AuxFanName, ChamberFanName, FilamentName, PrintWeightName,
		NozzleTempIconName, BedTempIconName, PartFanIconName, AuxFanIconName, ChamberFanIconName,
		PreviewImageName, ChamberTempIconName, TimeIconName, FilamentIconName,
	}
	require.Equal(t, wantOrder, fake.createCalls)

	// Z-индексы строго возрастают вслед за порядком создания
	for i, name := range wantOrder {
		id, err := fake.GetSceneItemID(SceneName, name)
		require.NoError(t, err)
		require.Equal(t, i, fake.indexes[id], "z-index элемента %s", name)
	}

	// Видеонастройки приведены к 1920x1080
	video, _ := fake.GetVideoSettings()
	require.Equal(t, float64(1920), video.BaseWidth)
	require.Equal(t, float64(1080), video.OutputHeight)

	// Все элементы залочены по конфигурации
	require.True(t, fake.locked[streamID])
}

func TestUpdateTextAndIconState(t *testing.T) {
	fake := newFakeCompositor()
	registry := NewOverlayRegistry(fake, testConfig(), testLogger())

	h, err := registry.EnsureTextElement(models.TextSourceDef{Name: "Stage"}, 2)
	require.NoError(t, err)
	require.NoError(t, registry.UpdateText(h, "Stage: Printing"))

	settings, err := fake.GetInputSettings("Stage")
	require.NoError(t, err)
	require.Equal(t, "Stage: Printing", settings["text"])

	icon, err := registry.EnsureToggleIconElement(models.ToggleIconSourceDef{
		Name:             "BedTempIcon",
		EnabledIconPath:  "a.png",
		DisabledIconPath: "b.png",
	}, 3)
	require.NoError(t, err)

	require.NoError(t, registry.SetIconState(icon, true))
	settings, _ = fake.GetInputSettings("BedTempIcon")
	require.Equal(t, "a.png", settings["file"])

	require.NoError(t, registry.SetIconState(icon, false))
	settings, _ = fake.GetInputSettings("BedTempIcon")
	require.Equal(t, "b.png", settings["file"])
}
