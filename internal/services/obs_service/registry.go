package obs_service

import (
	"fmt"
	"time"

	appconfig "github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
)

// Пауза после каждой создающей операции, чтобы не перегружать OBS.
const backoffDelay = 100 * time.Millisecond

const (
	mediaStatePlaying = "OBS_MEDIA_STATE_PLAYING"
	// Предел ожидания начала воспроизведения видеопотока камеры.
	mediaPollAttempts = 30
)

// OverlayRegistry владеет отображением логических имен элементов оверлея
// на живые элементы сцены. Все ensure-операции идемпотентны: существующий
// элемент переиспользуется, отсутствующий создается с позицией по умолчанию.
type OverlayRegistry struct {
	obs interfaces.Compositor
	cfg *appconfig.AppConfig
	log *logging.Logger

	mediaPollInterval time.Duration
}

func NewOverlayRegistry(obs interfaces.Compositor, cfg *appconfig.AppConfig, logger *logging.Logger) *OverlayRegistry {
	return &OverlayRegistry{
		obs:               obs,
		cfg:               cfg,
		log:               logger.WithPrefix("overlay"),
		mediaPollInterval: time.Second,
	}
}

// InitializeAll приводит сцену к рабочему состоянию и возвращает полный
// набор ссылок на элементы. Порядок создания фиксирован: он определяет
// z-индексы, от которых зависит визуальная раскладка.
func (r *OverlayRegistry) InitializeAll() (*models.OverlayHandles, error) {
	if err := r.EnsureVideoSettings(); err != nil {
		return nil, err
	}
	if err := r.EnsureScene(); err != nil {
		return nil, err
	}
	if err := r.EnsureVideoSource(); err != nil {
		return nil, err
	}
	if err := r.EnsureBackdrop(); err != nil {
		return nil, err
	}

	// Видеопоток занимает индекс 0, подложка - 1, остальные элементы следом.
	zIndex := 2
	handles := &models.OverlayHandles{}
	texts := map[string]*models.TextHandle{
		ChamberTempName:      &handles.ChamberTemp,
		BedTempName:          &handles.BedTemp,
		TargetBedTempName:    &handles.TargetBedTemp,
		NozzleTempName:       &handles.NozzleTemp,
		TargetNozzleTempName: &handles.TargetNozzleTemp,
		PercentCompleteName:  &handles.PercentComplete,
		LayersName:           &handles.Layers,
		TimeRemainingName:    &handles.TimeRemaining,
		SubtaskNameName:      &handles.SubtaskName,
		StageName:            &handles.Stage,
		PartFanName:          &handles.PartFan,
		AuxFanName:           &handles.AuxFan,
		ChamberFanName:       &handles.ChamberFan,
		FilamentName:         &handles.Filament,
		PrintWeightName:      &handles.PrintWeight,
	}
	for _, def := range textDefs {
		h, err := r.EnsureTextElement(def, zIndex)
		if err != nil {
			return nil, err
		}
		*texts[def.Name] = h
		zIndex++
	}

	toggles := toggleIconDefs(r.cfg.App.ImagesDir, r.cfg.PreviewImagePath())
	toggleTargets := map[string]*models.ToggleIconHandle{
		NozzleTempIconName: &handles.NozzleTempIcon,
		BedTempIconName:    &handles.BedTempIcon,
		PartFanIconName:    &handles.PartFanIcon,
		AuxFanIconName:     &handles.AuxFanIcon,
		ChamberFanIconName: &handles.ChamberFanIcon,
		PreviewImageName:   &handles.PreviewImage,
	}
	for _, def := range toggles {
		h, err := r.EnsureToggleIconElement(def, zIndex)
		if err != nil {
			return nil, err
		}
		*toggleTargets[def.Name] = h
		zIndex++
	}

	for _, def := range staticIconDefs(r.cfg.App.ImagesDir) {
		if err := r.EnsureIconElement(def, zIndex); err != nil {
			return nil, err
		}
		zIndex++
	}

	r.log.Info("Overlay initialized", "elements", zIndex)
	return handles, nil
}

// EnsureVideoSettings выставляет базовое и выходное разрешение 1920x1080.
func (r *OverlayRegistry) EnsureVideoSettings() error {
	settings, err := r.obs.GetVideoSettings()
	if err != nil {
		return err
	}
	if settings.BaseWidth == videoWidth && settings.OutputWidth == videoWidth &&
		settings.BaseHeight == videoHeight && settings.OutputHeight == videoHeight {
		return nil
	}

	r.log.Info("Setting video settings", "width", videoWidth, "height", videoHeight)
	err = r.obs.SetVideoSettings(models.VideoSettings{
		BaseWidth:    videoWidth,
		BaseHeight:   videoHeight,
		OutputWidth:  videoWidth,
		OutputHeight: videoHeight,
	})
	if err != nil {
		return err
	}
	time.Sleep(backoffDelay)
	return nil
}

// EnsureScene создает сцену и делает ее текущей программной сценой.
func (r *OverlayRegistry) EnsureScene() error {
	exists, err := r.obs.SceneExists(SceneName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	r.log.Info("Creating scene", "scene", SceneName)
	if err := r.obs.CreateScene(SceneName); err != nil {
		return err
	}
	if err := r.obs.SetCurrentScene(SceneName); err != nil {
		return err
	}
	time.Sleep(backoffDelay)
	return nil
}

// EnsureVideoSource создает источник видеопотока камеры принтера и дожидается
// начала воспроизведения: трансформация применима только к играющему медиа.
func (r *OverlayRegistry) EnsureVideoSource() error {
	recreated, err := r.ensureAbsent(StreamSourceName)
	if err != nil {
		return err
	}
	if !recreated {
		return nil
	}

	r.log.Info("Creating stream source", "source", StreamSourceName)
	settings := map[string]interface{}{
		"ffmpeg_options":      ffmpegOptions,
		"hw_decode":           true,
		"input":               "file:" + r.cfg.Bambu.SDPPath,
		"is_local_file":       false,
		"reconnect_delay_sec": 2,
	}
	id, err := r.obs.CreateInput(SceneName, StreamSourceName, videoInputType, settings)
	if err != nil {
		return err
	}

	state := ""
	for attempt := 0; attempt < mediaPollAttempts; attempt++ {
		state, err = r.obs.GetMediaState(StreamSourceName)
		if err != nil {
			return err
		}
		if state == mediaStatePlaying {
			break
		}
		r.log.Info("Waiting for stream to start...")
		time.Sleep(r.mediaPollInterval)
	}
	if state != mediaStatePlaying {
		return fmt.Errorf("источник %s не начал воспроизведение, состояние %s", StreamSourceName, state)
	}

	err = r.obs.SetSceneItemTransform(SceneName, id, models.SceneItemTransform{
		PositionX:       0,
		PositionY:       0,
		ScaleX:          1,
		ScaleY:          1,
		BoundsType:      "OBS_BOUNDS_SCALE_INNER",
		BoundsAlignment: 0,
		BoundsWidth:     videoWidth,
		BoundsHeight:    videoHeight,
	})
	if err != nil {
		return err
	}

	// Видеопоток всегда в самом низу
	if err := r.obs.SetSceneItemIndex(SceneName, id, 0); err != nil {
		return err
	}
	if err := r.lockIfConfigured(id); err != nil {
		return err
	}
	time.Sleep(backoffDelay)
	return nil
}

// EnsureBackdrop создает цветную подложку под строкой телеметрии.
func (r *OverlayRegistry) EnsureBackdrop() error {
	recreated, err := r.ensureAbsent(BackdropName)
	if err != nil {
		return err
	}
	if !recreated {
		return nil
	}

	r.log.Info("Creating color source", "source", BackdropName)
	settings := map[string]interface{}{
		"color":  backdropColor,
		"width":  videoWidth,
		"height": backdropHeight,
	}
	id, err := r.obs.CreateInput(SceneName, BackdropName, colorInputType, settings)
	if err != nil {
		return err
	}

	err = r.obs.SetSceneItemTransform(SceneName, id, models.SceneItemTransform{
		PositionX: 0,
		PositionY: backdropY,
	})
	if err != nil {
		return err
	}
	if err := r.obs.SetSceneItemIndex(SceneName, id, 1); err != nil {
		return err
	}
	if err := r.lockIfConfigured(id); err != nil {
		return err
	}
	time.Sleep(backoffDelay)
	return nil
}

// EnsureTextElement создает текстовый элемент с позицией по умолчанию.
func (r *OverlayRegistry) EnsureTextElement(def models.TextSourceDef, zIndex int) (models.TextHandle, error) {
	recreated, err := r.ensureAbsent(def.Name)
	if err != nil {
		return models.TextHandle{}, err
	}
	if !recreated {
		return models.TextHandle{Name: def.Name}, nil
	}

	r.log.Info("Creating text source", "source", def.Name)
	settings := map[string]interface{}{
		"text": "test",
		"font": map[string]interface{}{
			"face":  "Arial",
			"size":  36,
			"style": "regular",
		},
	}
	id, err := r.obs.CreateInput(SceneName, def.Name, textInputType, settings)
	if err != nil {
		return models.TextHandle{}, err
	}

	err = r.obs.SetSceneItemTransform(SceneName, id, models.SceneItemTransform{
		PositionX: def.DefaultX,
		PositionY: def.DefaultY,
	})
	if err != nil {
		return models.TextHandle{}, err
	}
	if err := r.obs.SetSceneItemIndex(SceneName, id, zIndex); err != nil {
		return models.TextHandle{}, err
	}
	if err := r.lockIfConfigured(id); err != nil {
		return models.TextHandle{}, err
	}
	time.Sleep(backoffDelay)
	return models.TextHandle{Name: def.Name}, nil
}

// EnsureIconElement создает статичную иконку.
func (r *OverlayRegistry) EnsureIconElement(def models.IconSourceDef, zIndex int) error {
	return r.ensureImage(def.Name, def.IconPath, def.DefaultX, def.DefaultY, def.Scale, zIndex, false)
}

// EnsureToggleIconElement создает иконку с двумя состояниями. Начальное
// состояние - disabled; для существующего элемента исправляется дрейф
// пути к файлу.
func (r *OverlayRegistry) EnsureToggleIconElement(def models.ToggleIconSourceDef, zIndex int) (models.ToggleIconHandle, error) {
	err := r.ensureImage(def.Name, def.DisabledIconPath, def.DefaultX, def.DefaultY, def.Scale, zIndex, true)
	if err != nil {
		return models.ToggleIconHandle{}, err
	}
	return models.ToggleIconHandle{
		Name:             def.Name,
		EnabledIconPath:  def.EnabledIconPath,
		DisabledIconPath: def.DisabledIconPath,
	}, nil
}

func (r *OverlayRegistry) ensureImage(name, icon string, x, y, scale float64, zIndex int, correctDrift bool) error {
	exists, err := r.obs.InputExists(name)
	if err != nil {
		return err
	}
	if exists {
		if !r.cfg.Obs.ForceCreateInputs {
			if !correctDrift {
				return nil
			}
			// Возможен дрейф пути после переноса каталога images
			current, err := r.obs.GetInputSettings(name)
			if err != nil {
				return err
			}
			if file, _ := current["file"].(string); file != icon {
				r.log.Info("Correcting icon path", "source", name, "file", icon)
				err = r.obs.SetInputSettings(name, map[string]interface{}{"file": icon})
				if err != nil {
					return err
				}
				time.Sleep(backoffDelay)
			}
			return nil
		}
		if err := r.obs.RemoveInput(name); err != nil {
			return err
		}
	}

	r.log.Info("Creating icon source", "source", name)
	settings := map[string]interface{}{
		"file":         icon,
		"linear_alpha": true,
		"unload":       true,
	}
	id, err := r.obs.CreateInput(SceneName, name, imageInputType, settings)
	if err != nil {
		return err
	}

	err = r.obs.SetSceneItemTransform(SceneName, id, models.SceneItemTransform{
		PositionX: x,
		PositionY: y,
		ScaleX:    scale,
		ScaleY:    scale,
	})
	if err != nil {
		return err
	}
	if err := r.obs.SetSceneItemIndex(SceneName, id, zIndex); err != nil {
		return err
	}
	if err := r.lockIfConfigured(id); err != nil {
		return err
	}
	time.Sleep(backoffDelay)
	return nil
}

// ensureAbsent сообщает, нужно ли создавать элемент заново: true - элемента
// нет (или он удален в режиме ForceCreateInputs), false - переиспользуем.
func (r *OverlayRegistry) ensureAbsent(name string) (bool, error) {
	exists, err := r.obs.InputExists(name)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}
	if !r.cfg.Obs.ForceCreateInputs {
		return false, nil
	}
	if err := r.obs.RemoveInput(name); err != nil {
		return false, err
	}
	return true, nil
}

func (r *OverlayRegistry) lockIfConfigured(id int) error {
	if !r.cfg.Obs.LockInputs {
		return nil
	}
	return r.obs.SetSceneItemLocked(SceneName, id, true)
}

// UpdateText выставляет текст элемента. Вызов безусловный: обновление
// идемпотентно, фильтрация по предыдущему значению не выполняется.
func (r *OverlayRegistry) UpdateText(handle models.TextHandle, text string) error {
	return r.obs.SetInputSettings(handle.Name, map[string]interface{}{"text": text})
}

// SetIconState переключает иконку между enabled/disabled изображениями.
func (r *OverlayRegistry) SetIconState(handle models.ToggleIconHandle, enabled bool) error {
	icon := handle.DisabledIconPath
	if enabled {
		icon = handle.EnabledIconPath
	}
	return r.obs.SetInputSettings(handle.Name, map[string]interface{}{"file": icon})
}
