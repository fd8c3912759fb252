package interfaces

import (
	"github.com/iwtcode/bambuService/internal/domain/entities"
	"github.com/iwtcode/bambuService/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases HTTP-слоя.
type Usecases interface {
	ListCacheDirectory() ([]models.RemoteFile, error)
	GetFileThumbnail(filename string) ([]byte, error)
	UploadFile(req models.UploadRequest) error
	StartPrint(req models.StartPrintRequest) error
	GetJobHistory() ([]entities.PrintJob, error)
}
