package handlers

import (
	"net/http"

	"github.com/iwtcode/bambuService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// ListFiles возвращает список файлов в кэше принтера.
// @Summary Список файлов печати
// @Description Возвращает содержимое каталога /cache файлового хранилища принтера.
// @Tags Print
// @Produce json
// @Success 200 {object} models.ListFilesResponse "Список файлов"
// @Failure 500 {object} models.ErrorResponse "Принтер недоступен"
// @Router /print/files [get]
func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.usecase.ListCacheDirectory()
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(files),
		"files":  files,
	})
}

// GetThumbnail возвращает превью пластины из .3mf файла.
// @Summary Превью задания печати
// @Description Скачивает .3mf файл из кэша принтера и извлекает превью пластины.
// @Tags Print
// @Produce png
// @Param filename path string true "Имя файла в /cache (с расширением .3mf или без)"
// @Success 200 {file} binary "PNG превью"
// @Failure 400 {object} models.ErrorResponse "Некорректное имя файла"
// @Failure 502 {object} models.ErrorResponse "Файл недоступен или не содержит превью"
// @Router /print/thumbnail/{filename} [get]
func (h *Handler) GetThumbnail(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		h.BadRequest(c, nil, "Missing filename")
		return
	}

	bytes, err := h.usecase.GetFileThumbnail(filename)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", bytes)
}

// StartPrint запускает печать файла из кэша принтера.
// @Summary Запустить печать
// @Description Отправляет принтеру команду project_file для файла из /cache.
// @Tags Print
// @Accept json
// @Produce json
// @Param input body models.StartPrintRequest true "Параметры запуска печати"
// @Success 200 {object} models.MessageResponse "Команда отправлена"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Failure 503 {object} models.ErrorResponse "Принтер не подключен"
// @Router /print/start [post]
func (h *Handler) StartPrint(c *gin.Context) {
	var req models.StartPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Attempting to start print", "subtask_name", req.SubtaskName)

	if err := h.usecase.StartPrint(req); err != nil {
		h.RespondError(c, err)
		return
	}

	h.logger.Info("Print command sent", "subtask_name", req.SubtaskName)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Print started"})
}

// UploadFile загружает локальный файл в кэш принтера.
// @Summary Загрузить файл на принтер
// @Description Передает локальный файл в каталог /cache файлового хранилища принтера.
// @Tags Print
// @Accept json
// @Produce json
// @Param input body models.UploadRequest true "Пути к локальному и удаленному файлам"
// @Success 200 {object} models.MessageResponse "Файл загружен"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Failure 500 {object} models.ErrorResponse "Ошибка передачи файла"
// @Router /print/upload [post]
func (h *Handler) UploadFile(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Attempting to upload file", "local_path", req.LocalPath, "remote_name", req.RemoteName)

	if err := h.usecase.UploadFile(req); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "File uploaded"})
}

// GetJobHistory возвращает историю заданий печати.
// @Summary История заданий
// @Description Возвращает все записанные задания печати, новые первыми.
// @Tags Jobs
// @Produce json
// @Success 200 {object} models.JobHistoryResponse "История заданий"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /jobs [get]
func (h *Handler) GetJobHistory(c *gin.Context) {
	jobs, err := h.usecase.GetJobHistory()
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(jobs),
		"jobs":   jobs,
	})
}
