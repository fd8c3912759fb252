package ftp_service

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	"github.com/stretchr/testify/require"
)

func buildTestArchive(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractArchiveEntry(t *testing.T) {
	archive := buildTestArchive(t, map[string][]byte{
		"Metadata/plate_1.png":       []byte("png-bytes"),
		"Metadata/slice_info.config": []byte("<config/>"),
	})

	data, err := ExtractArchiveEntry(archive, "Metadata/plate_1.png")
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)
}

func TestExtractArchiveEntryMissing(t *testing.T) {
	archive := buildTestArchive(t, map[string][]byte{"other.txt": []byte("x")})

	_, err := ExtractArchiveEntry(archive, "Metadata/plate_1.png")
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrAssetFetch))
}

func TestExtractArchiveEntryNotZip(t *testing.T) {
	_, err := ExtractArchiveEntry([]byte("definitely not a zip"), "Metadata/plate_1.png")
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrAssetFetch))
}

func TestParseSliceWeight(t *testing.T) {
	raw := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<config>
  <plate>
    <metadata key="index" value="1"/>
    <filament id="1" type="PLA" color="#FFFFFF" used_m="4.34" used_g="12.95"/>
  </plate>
</config>`)

	weight, err := ParseSliceWeight(raw)
	require.NoError(t, err)
	require.InDelta(t, 12.95, weight, 0.001)
}

func TestParseSliceWeightMultipleFilaments(t *testing.T) {
	raw := []byte(`<config>
  <plate>
    <filament id="1" type="PLA" used_g="10.5"/>
    <filament id="2" type="PETG" used_g="2.25"/>
  </plate>
</config>`)

	weight, err := ParseSliceWeight(raw)
	require.NoError(t, err)
	require.InDelta(t, 12.75, weight, 0.001)
}

func TestParseSliceWeightMalformed(t *testing.T) {
	_, err := ParseSliceWeight([]byte("not xml at all <"))
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrMalformedField))
}
