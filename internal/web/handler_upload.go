package web

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vbonduro/lensbot/internal/domain"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if _, ok := allowedImageTypes[mime]; ok {
		return mime, true
	}
	return "", false
}

func extForMIME(mime string) string {
	if mime == "image/webp" {
		return ".webp"
	}
	return allowedImageTypes[mime]
}

type photoResponse struct {
	Summary    string `json:"summary"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	OutputURL  string `json:"output_url"`
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read file")
		s.logger.Error("read upload failed", "error", err)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	name := uuid.NewString() + extForMIME(mimeType)
	inputPath, err := s.pipeline.Uploads().Save(r.Context(), name, bytes.NewReader(imageData))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to save photo")
		s.logger.Error("save upload failed", "name", name, "error", err)
		return
	}

	summary, outputPath, err := s.pipeline.Process(r.Context(), inputPath)
	if err != nil {
		s.writeError(w, statusFor(err), "failed to process photo")
		s.logger.Error("process photo failed", "input_path", inputPath, "error", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, photoResponse{
		Summary:    summary,
		InputPath:  inputPath,
		OutputPath: outputPath,
		OutputURL:  "/processed/" + filepath.Base(outputPath),
	})
}

func (s *Server) handleGetProcessed(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	reader, mimeType, err := s.pipeline.Processed().Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid file name")
		s.logger.Warn("open processed file failed", "name", name, "error", err)
		return
	}
	defer closeWithLog(reader, "processed file", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "name", name, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
