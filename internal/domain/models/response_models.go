package models

import "github.com/iwtcode/bambuService/internal/domain/entities"

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"404"`
		Message string `json:"message" example:"Файл не найден"`
	} `json:"error"`
}

// MessageResponse представляет стандартный успешный ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Print started"`
}

// ListFilesResponse представляет ответ со списком файлов в хранилище принтера.
type ListFilesResponse struct {
	Status string       `json:"status" example:"ok"`
	Count  int          `json:"count" example:"3"`
	Files  []RemoteFile `json:"files"`
}

// JobHistoryResponse представляет ответ с историей заданий печати.
type JobHistoryResponse struct {
	Status string              `json:"status" example:"ok"`
	Count  int                 `json:"count" example:"2"`
	Jobs   []entities.PrintJob `json:"jobs"`
}
