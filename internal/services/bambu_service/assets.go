package bambu_service

import (
	"fmt"
	"os"
)

// fetchJobAssets выгружает превью и вес нового задания в фоне, не блокируя
// обработку телеметрии. Результат для устаревшего задания (за время выгрузки
// началось новое) отбрасывается.
func (s *bambuService) fetchJobAssets(jobName string) {
	remotePath := fmt.Sprintf("/cache/%s.3mf", jobName)
	s.log.Info("Fetching job assets", "path", remotePath)

	thumbnail, err := s.files.GetFileThumbnail(remotePath)
	if err != nil {
		s.log.Error("Failed to get job thumbnail", "path", remotePath, "error", err)
		return
	}

	weight, err := s.files.GetPrintJobWeight(remotePath)
	if err != nil {
		s.log.Error("Failed to get job weight", "path", remotePath, "error", err)
		return
	}

	s.mu.Lock()
	stale := s.state.LastJobName != jobName
	handles := s.handles
	s.mu.Unlock()
	if stale || handles == nil {
		s.log.Debug("Discarding stale job assets", "subtask_name", jobName)
		return
	}

	if err := os.WriteFile(s.cfg.PreviewImagePath(), thumbnail, 0o644); err != nil {
		s.log.Error("Failed to write preview image", "error", err)
		return
	}
	s.setIconState(handles.PreviewImage, true)
	s.log.Info("Updated job preview", "subtask_name", jobName)

	s.updateText(handles.PrintWeight, fmt.Sprintf("%vg", weight))
	if err := s.repo.UpdateWeight(jobName, weight); err != nil {
		s.log.Error("Failed to record job weight", "error", err)
	}
}
