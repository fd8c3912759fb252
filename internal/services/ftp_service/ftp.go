package ftp_service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	"github.com/jlaffaye/ftp"
)

const dialTimeout = 15 * time.Second

// FtpStore - доступ к файловому хранилищу принтера по FTPS (implicit TLS).
// Принтер обрывает долгоживущие контрольные соединения, поэтому
// каждая операция открывает собственную сессию.
type FtpStore struct {
	cfg *config.AppConfig
	log *logging.Logger
}

func NewFtpStore(cfg *config.AppConfig, logger *logging.Logger) interfaces.FileStore {
	return &FtpStore{
		cfg: cfg,
		log: logger.WithPrefix("ftp"),
	}
}

func (s *FtpStore) dial() (*ftp.ServerConn, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Bambu.IP, s.cfg.Bambu.FtpPort)
	conn, err := ftp.Dial(addr,
		ftp.DialWithTimeout(dialTimeout),
		ftp.DialWithTLS(&tls.Config{InsecureSkipVerify: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к FTP принтера %s: %w", addr, err)
	}
	if err := conn.Login(s.cfg.Bambu.Username, s.cfg.Bambu.AccessCode); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("ошибка авторизации на FTP принтера: %w", err)
	}
	return conn, nil
}

// ListDirectory возвращает содержимое каталога хранилища принтера.
func (s *FtpStore) ListDirectory(path string) ([]models.RemoteFile, error) {
	conn, err := s.dial()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Quit() }()

	entries, err := conn.List(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить список файлов '%s': %w", path, err)
	}

	files := make([]models.RemoteFile, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		files = append(files, models.RemoteFile{
			Name:  e.Name,
			Size:  e.Size,
			IsDir: e.Type == ftp.EntryTypeFolder,
			Time:  e.Time.UTC().Format(time.RFC3339),
		})
	}
	return files, nil
}

// DownloadFile скачивает файл целиком в память.
func (s *FtpStore) DownloadFile(remotePath string) ([]byte, error) {
	conn, err := s.dial()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Quit() }()

	s.log.Debug("Downloading file", "path", remotePath)
	resp, err := conn.Retr(remotePath)
	if err != nil {
		return nil, fmt.Errorf("%w: retr '%s': %v", apperrors.ErrAssetFetch, remotePath, err)
	}
	defer func() { _ = resp.Close() }()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: read '%s': %v", apperrors.ErrAssetFetch, remotePath, err)
	}
	s.log.Debug("File downloaded", "path", remotePath, "bytes", len(data))
	return data, nil
}

// UploadFile загружает локальный файл в хранилище принтера.
func (s *FtpStore) UploadFile(localPath, remotePath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("не удалось прочитать локальный файл '%s': %w", localPath, err)
	}

	conn, err := s.dial()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Quit() }()

	s.log.Info("Uploading file to printer", "local", localPath, "remote", remotePath, "bytes", len(data))
	if err := conn.Stor(remotePath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("не удалось загрузить файл '%s': %w", remotePath, err)
	}
	return nil
}

// GetFileThumbnail извлекает превью пластины из архива проекта печати.
func (s *FtpStore) GetFileThumbnail(remotePath string) ([]byte, error) {
	data, err := s.DownloadFile(remotePath)
	if err != nil {
		return nil, err
	}
	return ExtractArchiveEntry(data, plateThumbnailEntry)
}

// GetPrintJobWeight извлекает суммарный вес филамента из метаданных слайсера.
func (s *FtpStore) GetPrintJobWeight(remotePath string) (float64, error) {
	data, err := s.DownloadFile(remotePath)
	if err != nil {
		return 0, err
	}
	raw, err := ExtractArchiveEntry(data, sliceInfoEntry)
	if err != nil {
		return 0, err
	}
	return ParseSliceWeight(raw)
}
