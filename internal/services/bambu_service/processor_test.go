package bambu_service

import (
	"fmt"
	"testing"
	"time"

	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/services/obs_service"

	"github.com/stretchr/testify/require"
)

func printMessage(overrides func(p *models.Print)) *models.Print {
	p := &models.Print{
		BedTemper:          55,
		BedTargetTemper:    60,
		NozzleTemper:       219.5,
		NozzleTargetTemper: 220,
		ChamberTemper:      30,
		McPercent:          42,
		McRemainingTime:    125,
		LayerNum:           10,
		TotalLayerNum:      100,
		StgCur:             int(models.StagePrinting),
		SubtaskName:        "widget",
		CoolingFanSpeed:    "15",
		BigFan1Speed:       "0",
		BigFan2Speed:       "7.5",
	}
	if overrides != nil {
		overrides(p)
	}
	return p
}

func TestHandlePrintDroppedWhenUninitialized(t *testing.T) {
	s, fake, files, _ := newTestService(t)
	s.handles = nil

	s.handlePrint(printMessage(nil))

	require.Nil(t, fake.setting(obs_service.BedTempName, "text"))
	require.Zero(t, files.thumbCallCount())
}

func TestHandlePrintUpdatesOverlay(t *testing.T) {
	s, fake, _, _ := newTestService(t)

	s.handlePrint(printMessage(func(p *models.Print) {
		p.Ams = &models.Ams{
			TrayNow: "1",
			Units:   []models.AmsUnit{{Trays: []models.Tray{{ID: "1", TrayType: "PLA"}}}},
		}
	}))

	require.Equal(t, "30 °C", fake.setting(obs_service.ChamberTempName, "text"))
	require.Equal(t, "55", fake.setting(obs_service.BedTempName, "text"))
	require.Equal(t, " / 60 °C", fake.setting(obs_service.TargetBedTempName, "text"))
	require.Equal(t, "219.5", fake.setting(obs_service.NozzleTempName, "text"))
	require.Equal(t, " / 220 °C", fake.setting(obs_service.TargetNozzleTempName, "text"))
	require.Equal(t, "42% complete", fake.setting(obs_service.PercentCompleteName, "text"))
	require.Equal(t, "Layers: 10/100", fake.setting(obs_service.LayersName, "text"))
	require.Equal(t, "-2h5m", fake.setting(obs_service.TimeRemainingName, "text"))
	require.Equal(t, "Model: widget", fake.setting(obs_service.SubtaskNameName, "text"))
	require.Equal(t, "Stage: Printing", fake.setting(obs_service.StageName, "text"))
	require.Equal(t, "Part: 100%", fake.setting(obs_service.PartFanName, "text"))
	require.Equal(t, "Aux: 0%", fake.setting(obs_service.AuxFanName, "text"))
	require.Equal(t, "Chamber: 50%", fake.setting(obs_service.ChamberFanName, "text"))
	require.Equal(t, "PLA", fake.setting(obs_service.FilamentName, "text"))

	// Иконки включаются по целевой температуре и ненулевой скорости
	require.Equal(t, "bed_on.png", fake.setting(obs_service.BedTempIconName, "file"))
	require.Equal(t, "nozzle_on.png", fake.setting(obs_service.NozzleTempIconName, "file"))
	require.Equal(t, "fan_on.png", fake.setting(obs_service.PartFanIconName, "file"))
	require.Equal(t, "fan_off.png", fake.setting(obs_service.AuxFanIconName, "file"))
	require.Equal(t, "fan_on.png", fake.setting(obs_service.ChamberFanIconName, "file"))
}

func TestHandlePrintZeroTargetsHideText(t *testing.T) {
	s, fake, _, _ := newTestService(t)

	s.handlePrint(printMessage(func(p *models.Print) {
		p.BedTargetTemper = 0
		p.NozzleTargetTemper = 0
	}))

	require.Equal(t, "", fake.setting(obs_service.TargetBedTempName, "text"))
	require.Equal(t, "", fake.setting(obs_service.TargetNozzleTempName, "text"))
	require.Equal(t, "bed_off.png", fake.setting(obs_service.BedTempIconName, "file"))
	require.Equal(t, "nozzle_off.png", fake.setting(obs_service.NozzleTempIconName, "file"))
}

func TestHandlePrintMalformedFanSkipped(t *testing.T) {
	s, fake, _, _ := newTestService(t)

	s.handlePrint(printMessage(func(p *models.Print) {
		p.CoolingFanSpeed = "garbage"
	}))

	// Поле пропущено, остальные обновления прошли
	require.Nil(t, fake.setting(obs_service.PartFanName, "text"))
	require.Equal(t, "Chamber: 50%", fake.setting(obs_service.ChamberFanName, "text"))
}

func TestJobChangeFetchesAssetsOnce(t *testing.T) {
	s, fake, files, repo := newTestService(t)

	s.handlePrint(printMessage(nil))
	s.handlePrint(printMessage(nil))

	require.Eventually(t, func() bool {
		return files.thumbCallCount() == 1
	}, 2*time.Second, 10*time.Millisecond, "ровно одна выгрузка на смену задания")
	require.Equal(t, "/cache/widget.3mf", files.thumbCalls[0])

	require.Eventually(t, func() bool {
		return fake.setting(obs_service.PrintWeightName, "text") == "15.5g"
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, s.cfg.PreviewImagePath(), fake.setting(obs_service.PreviewImageName, "file"))

	job, err := repo.GetByName("widget")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		j, err := repo.GetByName("widget")
		return err == nil && j.WeightGrams == 15.5
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, job.Name, "widget")
}

func TestJobChangeNewNameFetchesAgain(t *testing.T) {
	s, _, files, _ := newTestService(t)

	s.handlePrint(printMessage(nil))
	s.handlePrint(printMessage(func(p *models.Print) { p.SubtaskName = "gadget" }))

	require.Eventually(t, func() bool {
		return files.thumbCallCount() == 2
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "/cache/gadget.3mf", files.thumbCalls[1])
}

func TestStaleAssetFetchDiscarded(t *testing.T) {
	s, fake, _, _ := newTestService(t)

	// За время выгрузки началось новое задание
	s.state.LastJobName = "newer-job"
	s.fetchJobAssets("widget")

	require.Nil(t, fake.setting(obs_service.PrintWeightName, "text"))
	require.Nil(t, fake.setting(obs_service.PreviewImageName, "file"))
}

func TestUnknownStageRendersUndefined(t *testing.T) {
	s, fake, _, _ := newTestService(t)

	s.handlePrint(printMessage(func(p *models.Print) { p.StgCur = 99 }))

	require.Equal(t, "Stage: Undefined", fake.setting(obs_service.StageName, "text"))
}

func TestHandleMessageDispatch(t *testing.T) {
	s, fake, _, _ := newTestService(t)

	s.handleMessage([]byte(fmt.Sprintf(`{"print":{"bed_temper":33,"stg_cur":%d}}`, int(models.StagePrinting))))
	require.Equal(t, "33", fake.setting(obs_service.BedTempName, "text"))

	// Неизвестный тег и мусор не валят обработчик
	s.handleMessage([]byte(`{"system":{"command":"get_version"}}`))
	s.handleMessage([]byte(`not json`))
}
