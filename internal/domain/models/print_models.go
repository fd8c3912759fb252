package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/iwtcode/bambuService/pkg/errors"
)

// MessageTag - тег сообщения телеметрии (верхнеуровневый ключ JSON).
type MessageTag string

const (
	TagPrint   MessageTag = "print"
	TagMcPrint MessageTag = "mc_print"
	TagUnknown MessageTag = ""
)

// Envelope - результат разбора сырого сообщения: распознанный тег и полезная нагрузка.
// Известен только тег `print`; остальные сообщения подтверждаются, но не обрабатываются.
type Envelope struct {
	Tag   MessageTag
	Print *Print
}

// DecodeEnvelope разбирает сырое MQTT-сообщение в типизированный конверт.
// Неизвестные теги не являются ошибкой: возвращается конверт с Tag исходного ключа.
func DecodeEnvelope(payload []byte) (*Envelope, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("malformed telemetry message: %w", err)
	}

	if raw, ok := doc["print"]; ok {
		var p Print
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("malformed 'print' payload: %w", err)
		}
		return &Envelope{Tag: TagPrint, Print: &p}, nil
	}

	for tag := range doc {
		return &Envelope{Tag: MessageTag(tag)}, nil
	}
	return &Envelope{Tag: TagUnknown}, nil
}

// Print - статусное сообщение принтера. Имена полей соответствуют
// полезной нагрузке топика device/{serial}/report.
type Print struct {
	Ams                *Ams    `json:"ams"`
	BedTargetTemper    float64 `json:"bed_target_temper"`
	BedTemper          float64 `json:"bed_temper"`
	BigFan1Speed       string  `json:"big_fan1_speed"` // вспомогательный вентилятор
	BigFan2Speed       string  `json:"big_fan2_speed"` // вентилятор камеры
	ChamberTemper      float64 `json:"chamber_temper"`
	Command            string  `json:"command"`
	CoolingFanSpeed    string  `json:"cooling_fan_speed"` // вентилятор детали
	GcodeFile          string  `json:"gcode_file"`
	GcodeState         string  `json:"gcode_state"`
	LayerNum           int     `json:"layer_num"`
	McPercent          int     `json:"mc_percent"`
	McRemainingTime    int     `json:"mc_remaining_time"` // минуты
	NozzleTargetTemper float64 `json:"nozzle_target_temper"`
	NozzleTemper       float64 `json:"nozzle_temper"`
	SequenceID         string  `json:"sequence_id"`
	SpdLvl             int     `json:"spd_lvl"`
	StgCur             int     `json:"stg_cur"`
	SubtaskName        string  `json:"subtask_name"`
	TotalLayerNum      int     `json:"total_layer_num"`
	WifiSignal         string  `json:"wifi_signal"`
}

// CurrentStage возвращает текущую стадию печати.
func (p *Print) CurrentStage() PrintStage {
	return PrintStage(p.StgCur)
}

// CurrentStageText возвращает отображаемое имя стадии, "Undefined" для неизвестных кодов.
func (p *Print) CurrentStageText() string {
	return StageText(p.CurrentStage())
}

// SpeedLevelText возвращает отображаемое имя уровня скорости.
func (p *Print) SpeedLevelText() string {
	return SpeedLevelName(SpeedLevel(p.SpdLvl))
}

// Ams - automatic material system: набор блоков с катушками филамента.
type Ams struct {
	Units   []AmsUnit `json:"ams"`
	TrayNow string    `json:"tray_now"` // id активной катушки среди всех блоков
	TrayTar string    `json:"tray_tar"`
	Version int       `json:"version"`
}

// AmsUnit - один блок AMS со своими слотами.
type AmsUnit struct {
	ID       string `json:"id"`
	Humidity string `json:"humidity"`
	Temp     string `json:"temp"`
	Trays    []Tray `json:"tray"`
}

// Tray - катушка филамента в слоте AMS.
type Tray struct {
	ID         string `json:"id"`
	TrayColor  string `json:"tray_color"`
	TrayIDName string `json:"tray_id_name"`
	TrayType   string `json:"tray_type"`
	TrayWeight string `json:"tray_weight"`
	Remain     int    `json:"remain"`
}

// CurrentTray возвращает активную катушку, найденную по tray_now среди всех блоков.
// Пустой tray_type нормализуется в "Empty" - текстовый слот оверлея не бывает пустым.
func (a *Ams) CurrentTray() *Tray {
	if a == nil || a.TrayNow == "" {
		return nil
	}
	for _, unit := range a.Units {
		for i := range unit.Trays {
			if unit.Trays[i].ID == a.TrayNow {
				tray := unit.Trays[i]
				if tray.TrayType == "" {
					tray.TrayType = "Empty"
				}
				return &tray
			}
		}
	}
	return nil
}

// PrintStage - стадия печати, приходит числовым кодом в stg_cur.
type PrintStage int

const (
	StageIdle                                     PrintStage = -1
	StagePrinting                                 PrintStage = 0
	StageAutoBedLeveling                          PrintStage = 1
	StageHeatbedPreheating                        PrintStage = 2
	StageSweepingXYMechMode                       PrintStage = 3
	StageChangingFilament                         PrintStage = 4
	StageM400Pause                                PrintStage = 5
	StagePausedDueToFilamentRunout                PrintStage = 6
	StageHeatingHotend                            PrintStage = 7
	StageCalibratingExtrusion                     PrintStage = 8
	StageScanningBedSurface                       PrintStage = 9
	StageInspectingFirstLayer                     PrintStage = 10
	StageIdentifyingBuildPlateType                PrintStage = 11
	StageCalibratingMicroLidar                    PrintStage = 12
	StageHomingToolhead                           PrintStage = 13
	StageCleaningNozzleTip                        PrintStage = 14
	StageCheckingExtruderTemperature              PrintStage = 15
	StagePrintingWasPausedByTheUser               PrintStage = 16
	StagePauseOfFrontCoverFalling                 PrintStage = 17
	StageCalibratingTheMicroLidar                 PrintStage = 18
	StageCalibratingExtrusionFlow                 PrintStage = 19
	StagePausedDueToNozzleTemperatureMalfunction  PrintStage = 20
	StagePausedDueToHeatBedTemperatureMalfunction PrintStage = 21
)

var stageNames = map[PrintStage]string{
	StageIdle:                        "Idle",
	StagePrinting:                    "Printing",
	StageAutoBedLeveling:             "Auto bed leveling",
	StageHeatbedPreheating:           "Heatbed preheating",
	StageSweepingXYMechMode:          "Sweeping XY mech mode",
	StageChangingFilament:            "Changing filament",
	StageM400Pause:                   "M400 pause",
	StagePausedDueToFilamentRunout:   "Paused due to filament runout",
	StageHeatingHotend:               "Heating hotend",
	StageCalibratingExtrusion:        "Calibrating extrusion",
	StageScanningBedSurface:          "Scanning bed surface",
	StageInspectingFirstLayer:        "Inspecting first layer",
	StageIdentifyingBuildPlateType:   "Identifying build plate type",
	StageCalibratingMicroLidar:       "Calibrating Micro Lidar",
	StageHomingToolhead:              "Homing toolhead",
	StageCleaningNozzleTip:           "Cleaning nozzle tip",
	StageCheckingExtruderTemperature: "Checking extruder temperature",
	StagePrintingWasPausedByTheUser:  "Printing was paused by the user",
	StagePauseOfFrontCoverFalling:    "Pause of front cover falling",
	StageCalibratingTheMicroLidar:    "Calibrating the micro lidar",
	StageCalibratingExtrusionFlow:    "Calibrating extrusion flow",
	StagePausedDueToNozzleTemperatureMalfunction:  "Paused due to nozzle temperature malfunction",
	StagePausedDueToHeatBedTemperatureMalfunction: "Paused due to heat bed temperature malfunction",
}

// StageText возвращает отображаемое имя стадии по коду.
// Коды вне известного набора не приводят к ошибке: возвращается "Undefined",
// сырой код сохраняется для логирования на вызывающей стороне.
func StageText(stage PrintStage) string {
	if name, ok := stageNames[stage]; ok {
		return name
	}
	return "Undefined"
}

// SpeedLevel - уровень скорости печати (spd_lvl).
type SpeedLevel int

const (
	SpeedSilent    SpeedLevel = 1
	SpeedStandard  SpeedLevel = 2
	SpeedSport     SpeedLevel = 3
	SpeedLudicrous SpeedLevel = 4
)

var speedLevelNames = map[SpeedLevel]string{
	SpeedSilent:    "Silent",
	SpeedStandard:  "Standard",
	SpeedSport:     "Sport",
	SpeedLudicrous: "Ludicrous",
}

// SpeedLevelName возвращает имя уровня скорости, "Undefined" для неизвестных значений.
func SpeedLevelName(level SpeedLevel) string {
	if name, ok := speedLevelNames[level]; ok {
		return name
	}
	return "Undefined"
}

// FanSpeedPercent нормализует сырую скорость вентилятора (строка со шкалой 0-15)
// в целочисленный процент: round(v/15, 1 знак) * 100.
func FanSpeedPercent(raw string) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: fan speed %q", pkgerrors.ErrMalformedField, raw)
	}
	percent := math.Round(value/15*10) / 10 * 100
	return int(math.Round(percent)), nil
}

// FormatRemaining форматирует оставшееся время печати в минутах
// как "-{h}h{m}m" при >= 60 минут, иначе "-{m}m".
func FormatRemaining(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("-%dh%dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("-%dm", minutes)
}

// StatusExport - нормализованный снимок статуса, публикуемый во внешние системы.
type StatusExport struct {
	Serial          string  `json:"serial"`
	Timestamp       string  `json:"timestamp"`
	Stage           string  `json:"stage"`
	StageCode       int     `json:"stage_code"`
	Percent         int     `json:"percent"`
	LayerNum        int     `json:"layer_num"`
	TotalLayerNum   int     `json:"total_layer_num"`
	RemainingMin    int     `json:"remaining_min"`
	BedTemper       float64 `json:"bed_temper"`
	BedTarget       float64 `json:"bed_target"`
	NozzleTemper    float64 `json:"nozzle_temper"`
	NozzleTarget    float64 `json:"nozzle_target"`
	ChamberTemper   float64 `json:"chamber_temper"`
	PartFanPercent  int     `json:"part_fan_percent"`
	AuxFanPercent   int     `json:"aux_fan_percent"`
	ChamberFanPct   int     `json:"chamber_fan_percent"`
	SpeedLevel      string  `json:"speed_level"`
	SubtaskName     string  `json:"subtask_name"`
	FilamentType    string  `json:"filament_type,omitempty"`
}
