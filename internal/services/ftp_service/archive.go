package ftp_service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/iwtcode/bambuService/internal/domain/models"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"
)

// Файлы проекта печати (.3mf) - это zip-архивы со служебными метаданными слайсера.
const (
	plateThumbnailEntry = "Metadata/plate_1.png"
	sliceInfoEntry      = "Metadata/slice_info.config"
)

// ExtractArchiveEntry читает один файл из zip-архива в памяти.
func ExtractArchiveEntry(archive []byte, entryName string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: не удалось открыть архив: %v", apperrors.ErrAssetFetch, err)
	}
	for _, f := range reader.File {
		if f.Name != entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: не удалось открыть '%s': %v", apperrors.ErrAssetFetch, entryName, err)
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: '%s' отсутствует в архиве", apperrors.ErrAssetFetch, entryName)
}

// ParseSliceWeight разбирает slice_info.config и возвращает суммарный
// вес филамента плиты в граммах.
func ParseSliceWeight(raw []byte) (float64, error) {
	var cfg models.SliceConfig
	if err := xml.Unmarshal(raw, &cfg); err != nil {
		return 0, fmt.Errorf("%w: не удалось разобрать slice_info.config: %v", apperrors.ErrMalformedField, err)
	}
	var total float64
	for _, f := range cfg.Plate.Filaments {
		total += f.UsedG
	}
	return total, nil
}
