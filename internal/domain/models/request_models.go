package models

import "encoding/json"

// StartPrintRequest определяет структуру запроса на ручной запуск печати.
type StartPrintRequest struct {
	SubtaskName string `json:"subtask_name" binding:"required"` // имя .3mf файла в /cache без расширения
	UseAms      bool   `json:"use_ams"`
	Timelapse   bool   `json:"timelapse"`
	BedLeveling bool   `json:"bed_leveling"`
}

// UploadRequest определяет структуру запроса на ручную передачу файла на принтер.
type UploadRequest struct {
	LocalPath  string `json:"local_path" binding:"required"`
	RemoteName string `json:"remote_name" binding:"required"`
}

// BuildProjectFileCommand собирает полезную нагрузку команды project_file
// для топика device/{serial}/request.
func BuildProjectFileCommand(req StartPrintRequest) ([]byte, error) {
	command := map[string]interface{}{
		"print": map[string]interface{}{
			"sequence_id":    "0",
			"command":        "project_file",
			"param":          "Metadata/plate_1.gcode",
			"subtask_name":   req.SubtaskName,
			"url":            "ftp://cache/" + req.SubtaskName + ".3mf",
			"timelapse":      req.Timelapse,
			"bed_leveling":   req.BedLeveling,
			"flow_cali":      false,
			"vibration_cali": false,
			"layer_inspect":  true,
			"use_ams":        req.UseAms,
		},
	}
	return json.Marshal(command)
}
