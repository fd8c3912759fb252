package usecases

import (
	"fmt"
	"strings"

	"github.com/iwtcode/bambuService/internal/domain/entities"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"
)

const cacheDir = "/cache"

type Usecase struct {
	files     interfaces.FileStore
	transport interfaces.PrinterTransport
	repo      interfaces.PrintJobRepository
}

func NewUsecase(
	files interfaces.FileStore,
	transport interfaces.PrinterTransport,
	repo interfaces.PrintJobRepository,
) interfaces.Usecases {
	return &Usecase{
		files:     files,
		transport: transport,
		repo:      repo,
	}
}

func (u *Usecase) ListCacheDirectory() ([]models.RemoteFile, error) {
	return u.files.ListDirectory(cacheDir)
}

func (u *Usecase) GetFileThumbnail(filename string) ([]byte, error) {
	name := strings.TrimSuffix(filename, ".3mf")
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("некорректное имя файла '%s'", filename)
	}
	return u.files.GetFileThumbnail(fmt.Sprintf("%s/%s.3mf", cacheDir, name))
}

func (u *Usecase) UploadFile(req models.UploadRequest) error {
	if strings.ContainsAny(req.RemoteName, "/\\") {
		return fmt.Errorf("некорректное имя удаленного файла '%s'", req.RemoteName)
	}
	return u.files.UploadFile(req.LocalPath, fmt.Sprintf("%s/%s", cacheDir, req.RemoteName))
}

func (u *Usecase) StartPrint(req models.StartPrintRequest) error {
	if !u.transport.IsConnected() {
		return fmt.Errorf("принтер не подключен: %w", apperrors.ErrNotConnected)
	}
	payload, err := models.BuildProjectFileCommand(req)
	if err != nil {
		return err
	}
	return u.transport.PublishCommand(payload)
}

func (u *Usecase) GetJobHistory() ([]entities.PrintJob, error) {
	return u.repo.GetAll()
}
