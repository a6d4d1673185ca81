package vision

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/lensbot/internal/domain"
)

const defaultMIME = "image/jpeg"

var extMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// MIMEFromExt maps a file extension to an image MIME type, falling back to
// JPEG for anything unrecognised.
func MIMEFromExt(path string) string {
	if mime, ok := extMIME[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return defaultMIME
}

// EncodeDataURL reads the whole file at path and returns it as
// "data:<mime>;base64,<payload>". mimeHint overrides extension detection
// when non-empty.
func EncodeDataURL(path, mimeHint string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("image %s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	mime := mimeHint
	if mime == "" {
		mime = MIMEFromExt(path)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// SplitDataURL returns the MIME type and base64 payload of a data URL
// produced by EncodeDataURL.
func SplitDataURL(dataURL string) (mime, payload string, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", "", fmt.Errorf("not a data url")
	}
	mime, payload, ok = strings.Cut(rest, ";base64,")
	if !ok || mime == "" {
		return "", "", fmt.Errorf("data url is not base64 encoded")
	}
	return mime, payload, nil
}
