package bambu_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwtcode/bambuService/internal/domain/entities"
	"github.com/iwtcode/bambuService/internal/domain/models"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"
)

// Run запускает единый цикл диспетчеризации событий транспорта.
// Каждое событие обрабатывается до конца перед следующим; ошибки
// отдельных сообщений логируются и не завершают цикл.
func (s *bambuService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.transport.Events():
			if !ok {
				return nil
			}
			switch ev.Kind {
			case models.EventConnected:
				s.log.Info("Printer connected")
			case models.EventDisconnected:
				s.log.Warn("Printer disconnected", "reason", ev.Reason)
				if s.cfg.App.ExitOnEndpointDisconnect {
					s.shutdown()
				}
			case models.EventMessage:
				s.handleMessage(ev.Payload)
			}
		}
	}
}

func (s *bambuService) handleMessage(payload []byte) {
	envelope, err := models.DecodeEnvelope(payload)
	if err != nil {
		s.log.Error("Failed to decode message", "error", err)
		return
	}

	switch envelope.Tag {
	case models.TagPrint:
		s.handlePrint(envelope.Print)
	default:
		s.log.Trace("Unknown message type", "tag", string(envelope.Tag))
	}
}

// handlePrint обновляет все элементы оверлея по статусному сообщению.
// Обновления безусловные: фильтрации по предыдущим значениям нет.
func (s *bambuService) handlePrint(p *models.Print) {
	handles := s.currentHandles()
	if handles == nil {
		s.log.Warn("Overlay is not initialized yet, dropping message")
		return
	}

	s.updateText(handles.ChamberTemp, fmt.Sprintf("%v °C", p.ChamberTemper))
	s.updateText(handles.BedTemp, fmt.Sprintf("%v", p.BedTemper))

	s.setIconState(handles.BedTempIcon, p.BedTargetTemper > 0)
	s.setIconState(handles.NozzleTempIcon, p.NozzleTargetTemper > 0)

	targetBed := fmt.Sprintf(" / %v °C", p.BedTargetTemper)
	if p.BedTargetTemper == 0 {
		targetBed = ""
	}
	s.updateText(handles.TargetBedTemp, targetBed)

	s.updateText(handles.NozzleTemp, fmt.Sprintf("%v", p.NozzleTemper))

	targetNozzle := fmt.Sprintf(" / %v °C", p.NozzleTargetTemper)
	if p.NozzleTargetTemper == 0 {
		targetNozzle = ""
	}
	s.updateText(handles.TargetNozzleTemp, targetNozzle)

	percentMsg := fmt.Sprintf("%d%% complete", p.McPercent)
	s.updateText(handles.PercentComplete, percentMsg)
	layerMsg := fmt.Sprintf("Layers: %d/%d", p.LayerNum, p.TotalLayerNum)
	s.updateText(handles.Layers, layerMsg)

	if s.state.LastLayerNum != p.LayerNum {
		s.log.Info("Layer changed", "progress", percentMsg, "layers", layerMsg)
		s.state.LastLayerNum = p.LayerNum
	}

	s.updateText(handles.TimeRemaining, models.FormatRemaining(p.McRemainingTime))
	s.updateText(handles.SubtaskName, "Model: "+p.SubtaskName)

	stageText := p.CurrentStageText()
	if stageText == "Undefined" {
		s.log.Warn("Unknown print stage", "stg_cur", p.StgCur)
	}
	s.updateText(handles.Stage, "Stage: "+stageText)

	s.updateFan(handles.PartFan, "Part", p.CoolingFanSpeed)
	s.updateFan(handles.AuxFan, "Aux", p.BigFan1Speed)
	s.updateFan(handles.ChamberFan, "Chamber", p.BigFan2Speed)

	s.setIconState(handles.PartFanIcon, p.CoolingFanSpeed != "0")
	s.setIconState(handles.AuxFanIcon, p.BigFan1Speed != "0")
	s.setIconState(handles.ChamberFanIcon, p.BigFan2Speed != "0")

	filamentType := ""
	if tray := p.Ams.CurrentTray(); tray != nil {
		filamentType = tray.TrayType
		s.updateText(handles.Filament, tray.TrayType)
	}

	s.checkJobChange(p)
	s.exportStatus(p, filamentType)
	s.evaluateLifecycle(p)
}

// checkJobChange обнаруживает смену задания печати: непустой subtask_name,
// отличный от предыдущего, запускает фоновую выгрузку превью и веса.
func (s *bambuService) checkJobChange(p *models.Print) {
	if p.SubtaskName == "" {
		return
	}

	s.mu.Lock()
	changed := p.SubtaskName != s.state.LastJobName
	if changed {
		s.state.LastJobName = p.SubtaskName
	}
	s.mu.Unlock()
	if !changed {
		return
	}

	s.log.Info("Print job changed", "subtask_name", p.SubtaskName)

	if err := s.repo.Create(&entities.PrintJob{
		Name:      p.SubtaskName,
		LastStage: p.CurrentStageText(),
		Status:    entities.JobStatusPrinting,
	}); err != nil {
		s.log.Error("Failed to record print job", "error", err)
	}

	go s.fetchJobAssets(p.SubtaskName)
}

// exportStatus публикует нормализованный снимок статуса во внешние системы.
func (s *bambuService) exportStatus(p *models.Print, filamentType string) {
	if !s.cfg.Kafka.Enable {
		return
	}

	export := models.StatusExport{
		Serial:        s.cfg.Bambu.Serial,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Stage:         p.CurrentStageText(),
		StageCode:     p.StgCur,
		Percent:       p.McPercent,
		LayerNum:      p.LayerNum,
		TotalLayerNum: p.TotalLayerNum,
		RemainingMin:  p.McRemainingTime,
		BedTemper:     p.BedTemper,
		BedTarget:     p.BedTargetTemper,
		NozzleTemper:  p.NozzleTemper,
		NozzleTarget:  p.NozzleTargetTemper,
		ChamberTemper: p.ChamberTemper,
		SpeedLevel:    p.SpeedLevelText(),
		SubtaskName:   p.SubtaskName,
		FilamentType:  filamentType,
	}
	if v, err := models.FanSpeedPercent(p.CoolingFanSpeed); err == nil {
		export.PartFanPercent = v
	}
	if v, err := models.FanSpeedPercent(p.BigFan1Speed); err == nil {
		export.AuxFanPercent = v
	}
	if v, err := models.FanSpeedPercent(p.BigFan2Speed); err == nil {
		export.ChamberFanPct = v
	}

	value, err := json.Marshal(export)
	if err != nil {
		s.log.Error("Failed to marshal status export", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.producer.Produce(ctx, []byte(s.cfg.Bambu.Serial), value); err != nil {
		s.log.Error("Failed to produce status export", "error", err)
	}
}

// updateFan форматирует скорость вентилятора в проценты. Значение, которое
// не удалось разобрать, пропускается; остальные поля сообщения обрабатываются.
func (s *bambuService) updateFan(handle models.TextHandle, label, raw string) {
	percent, err := models.FanSpeedPercent(raw)
	if err != nil {
		s.log.Debug("Skipping malformed fan speed", "field", label, "value", raw)
		return
	}
	s.updateText(handle, fmt.Sprintf("%s: %d%%", label, percent))
}

func (s *bambuService) updateText(handle models.TextHandle, text string) {
	if err := s.registry.UpdateText(handle, text); err != nil {
		s.reportOverlayError("text", handle.Name, err)
	}
}

func (s *bambuService) setIconState(handle models.ToggleIconHandle, enabled bool) {
	if err := s.registry.SetIconState(handle, enabled); err != nil {
		s.reportOverlayError("icon", handle.Name, err)
	}
}

// reportOverlayError подавляет ErrDisposed: он ожидаем при завершении работы.
func (s *bambuService) reportOverlayError(kind, name string, err error) {
	if errors.Is(err, apperrors.ErrDisposed) {
		return
	}
	s.log.Error("Failed to update overlay element", "kind", kind, "source", name, "error", err)
}
