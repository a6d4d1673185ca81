package vision

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lensbot/internal/domain"
)

func TestEncodeDataURL(t *testing.T) {
	dir := t.TempDir()
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	tests := []struct {
		file     string
		hint     string
		wantMIME string
	}{
		{file: "a.jpg", wantMIME: "image/jpeg"},
		{file: "b.JPEG", wantMIME: "image/jpeg"},
		{file: "c.png", wantMIME: "image/png"},
		{file: "d.webp", wantMIME: "image/webp"},
		{file: "e.gif", wantMIME: "image/jpeg"},
		{file: "noext", wantMIME: "image/jpeg"},
		{file: "f.jpg", hint: "image/png", wantMIME: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, payload, 0644))

			got, err := EncodeDataURL(path, tt.hint)
			require.NoError(t, err)

			prefix := "data:" + tt.wantMIME + ";base64,"
			require.True(t, strings.HasPrefix(got, prefix), got)
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, prefix))
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestEncodeDataURLNotFound(t *testing.T) {
	_, err := EncodeDataURL(filepath.Join(t.TempDir(), "missing.jpg"), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSplitDataURL(t *testing.T) {
	mime, payload, err := SplitDataURL("data:image/png;base64,AAEC")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "AAEC", payload)

	_, _, err = SplitDataURL("https://example.com/a.png")
	assert.Error(t, err)

	_, _, err = SplitDataURL("data:image/png,rawbytes")
	assert.Error(t, err)
}
