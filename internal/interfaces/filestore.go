package interfaces

import (
	"github.com/iwtcode/bambuService/internal/domain/models"
)

// FileStore определяет контракт для работы с файловым хранилищем принтера.
type FileStore interface {
	ListDirectory(path string) ([]models.RemoteFile, error)
	DownloadFile(remotePath string) ([]byte, error)
	UploadFile(localPath, remotePath string) error
	GetFileThumbnail(remotePath string) ([]byte, error)
	GetPrintJobWeight(remotePath string) (float64, error)
}
