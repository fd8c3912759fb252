package obs_service

import (
	"path/filepath"

	"github.com/iwtcode/bambuService/internal/domain/models"
)

// Константы сцены и типов входов OBS.
const (
	SceneName        = "BambuStream"
	StreamSourceName = "BambuStreamSource"
	BackdropName     = "ColorSource"

	textInputType  = "text_gdiplus_v2"
	imageInputType = "image_source"
	colorInputType = "color_source_v3"
	videoInputType = "ffmpeg_source"

	ffmpegOptions = "protocol_whitelist=file,udp,rtp"

	videoWidth  = 1920
	videoHeight = 1080

	backdropColor  = 4026531840
	backdropHeight = 130
	backdropY      = 950

	monitorIconScale = 0.2
)

// Имена элементов оверлея.
const (
	ChamberTempName      = "ChamberTemp"
	BedTempName          = "BedTemp"
	TargetBedTempName    = "TargetBedTemp"
	NozzleTempName       = "NozzleTemp"
	TargetNozzleTempName = "TargetNozzleTemp"
	PercentCompleteName  = "PercentComplete"
	LayersName           = "Layers"
	TimeRemainingName    = "TimeRemaining"
	SubtaskNameName      = "SubtaskName"
	StageName            = "Stage"
	PartFanName          = "PartFan"
	AuxFanName           = "AuxFan"
	ChamberFanName       = "ChamberFan"
	FilamentName         = "Filament"
	PrintWeightName      = "PrintWeight"

	NozzleTempIconName = "NozzleTempIcon"
	BedTempIconName    = "BedTempIcon"
	PartFanIconName    = "PartFanIcon"
	AuxFanIconName     = "AuxFanIcon"
	ChamberFanIconName = "ChamberFanIcon"
	PreviewImageName   = "PreviewImage"

	ChamberTempIconName = "ChamberTempIcon"
	TimeIconName        = "TimeIcon"
	FilamentIconName    = "FilamentIcon"
)

// textDefs - текстовые элементы в порядке, определяющем z-индексы.
// Позиции рассчитаны под полосу оверлея 1920x130 на y=950.
var textDefs = []models.TextSourceDef{
	{Name: ChamberTempName, DefaultX: 56, DefaultY: 1021},
	{Name: BedTempName, DefaultX: 342, DefaultY: 1020},
	{Name: TargetBedTempName, DefaultX: 474, DefaultY: 1019},
	{Name: NozzleTempName, DefaultX: 588, DefaultY: 1020},
	{Name: TargetNozzleTempName, DefaultX: 770, DefaultY: 1019},
	{Name: PercentCompleteName, DefaultX: 1707, DefaultY: 1023},
	{Name: LayersName, DefaultX: 1687, DefaultY: 978},
	{Name: TimeRemainingName, DefaultX: 1803, DefaultY: 1023},
	{Name: SubtaskNameName, DefaultX: 960, DefaultY: 978},
	{Name: StageName, DefaultX: 962, DefaultY: 1021},
	{Name: PartFanName, DefaultX: 58, DefaultY: 978},
	{Name: AuxFanName, DefaultX: 256, DefaultY: 978},
	{Name: ChamberFanName, DefaultX: 472, DefaultY: 978},
	{Name: FilamentName, DefaultX: 1487, DefaultY: 978},
	{Name: PrintWeightName, DefaultX: 1303, DefaultY: 979},
}

// toggleIconDefs возвращает иконки с двумя состояниями.
// Превью задания использует один и тот же путь для обоих состояний:
// до первой загрузки файла вход просто ничего не отображает.
func toggleIconDefs(imagesDir, previewPath string) []models.ToggleIconSourceDef {
	img := func(name string) string { return filepath.Join(imagesDir, name) }
	return []models.ToggleIconSourceDef{
		{
			Name:             NozzleTempIconName,
			EnabledIconPath:  img("monitor_nozzle_temp_active.png"),
			DisabledIconPath: img("monitor_nozzle_temp.png"),
			DefaultX:         552, DefaultY: 1016, Scale: monitorIconScale,
		},
		{
			Name:             BedTempIconName,
			EnabledIconPath:  img("monitor_bed_temp_active.png"),
			DisabledIconPath: img("monitor_bed_temp.png"),
			DefaultX:         302, DefaultY: 1016, Scale: monitorIconScale,
		},
		{
			Name:             PartFanIconName,
			EnabledIconPath:  img("fan_icon.png"),
			DisabledIconPath: img("fan_off.png"),
			DefaultX:         10, DefaultY: 969, Scale: monitorIconScale,
		},
		{
			Name:             AuxFanIconName,
			EnabledIconPath:  img("fan_icon.png"),
			DisabledIconPath: img("fan_off.png"),
			DefaultX:         206, DefaultY: 969, Scale: monitorIconScale,
		},
		{
			Name:             ChamberFanIconName,
			EnabledIconPath:  img("fan_icon.png"),
			DisabledIconPath: img("fan_off.png"),
			DefaultX:         422, DefaultY: 969, Scale: monitorIconScale,
		},
		{
			Name:             PreviewImageName,
			EnabledIconPath:  previewPath,
			DisabledIconPath: previewPath,
			DefaultX:         1664, DefaultY: 0, Scale: 1.0,
		},
	}
}

// staticIconDefs - декоративные иконки без состояния.
func staticIconDefs(imagesDir string) []models.IconSourceDef {
	img := func(name string) string { return filepath.Join(imagesDir, name) }
	return []models.IconSourceDef{
		{Name: ChamberTempIconName, IconPath: img("monitor_frame_temp.png"), DefaultX: 9, DefaultY: 1021, Scale: monitorIconScale},
		{Name: TimeIconName, IconPath: img("monitor_time.png"), DefaultX: 1755, DefaultY: 1024, Scale: monitorIconScale},
		{Name: FilamentIconName, IconPath: img("filament.png"), DefaultX: 1437, DefaultY: 971, Scale: monitorIconScale},
	}
}
