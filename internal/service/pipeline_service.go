package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/photostore"
)

// NothingProcessedMessage is returned by SynthesizeAll when the log is empty.
const NothingProcessedMessage = "ยังไม่มีไฟล์ที่ถูกประมวลผลค่ะ"

const (
	synthesisPreamble = "คุณคือผู้ช่วยที่สรุปข้อมูลภาพจำนวนมาก ให้ผลลัพธ์สั้น กระชับ เชิงปฏิบัติ นี่คือสรุปต่อไฟล์:\n\n%s\n\n"
	synthesisPrompt   = "สังเคราะห์เป็นสรุปรวม: bullet ประเด็น, theme ให้สั้น กระชับ เชิงปฏิบัติ"
)

// summaryRepository is the subset of store.SummaryStore that PipelineService requires.
type summaryRepository interface {
	Append(ctx context.Context, rec domain.ProcessingRecord) error
	LoadAll(ctx context.Context) ([]domain.ProcessingRecord, error)
	Clear(ctx context.Context) error
}

// analyzer is the subset of vision.Analyzer the services require.
type analyzer interface {
	AnalyzeImage(ctx context.Context, path string) string
	Narrate(ctx context.Context, systemPreamble, userPrompt string) string
}

type PipelineService struct {
	analyzer  analyzer
	summaries summaryRepository
	uploads   photostore.PhotoStore
	processed photostore.PhotoStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewPipelineService(
	analyzer analyzer,
	summaries summaryRepository,
	uploads photostore.PhotoStore,
	processed photostore.PhotoStore,
	logger *slog.Logger,
) *PipelineService {
	return &PipelineService{
		analyzer:  analyzer,
		summaries: summaries,
		uploads:   uploads,
		processed: processed,
		logger:    logger,
		now:       time.Now,
	}
}

// Uploads is where front-ends save incoming images before calling Process.
func (s *PipelineService) Uploads() photostore.PhotoStore {
	return s.uploads
}

// Processed holds the duplicated artifacts written by Process.
func (s *PipelineService) Processed() photostore.PhotoStore {
	return s.processed
}

// Process analyzes the image at inputPath, duplicates it into the processed
// store and appends a record to the summary log. An empty summary means the
// analysis failed; copy and log failures are returned as errors.
func (s *PipelineService) Process(ctx context.Context, inputPath string) (string, string, error) {
	s.logger.Info("process image started", "input_path", inputPath)

	summary := s.analyzer.AnalyzeImage(ctx, inputPath)
	if summary == "" {
		s.logger.Warn("image analysis returned no summary", "input_path", inputPath)
	}

	outputPath, err := s.processed.Copy(ctx, inputPath, ProcessedName(inputPath))
	if err != nil {
		return "", "", fmt.Errorf("failed to duplicate image: %w", err)
	}

	rec := domain.ProcessingRecord{
		Timestamp:  s.now().UTC().Truncate(time.Second),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Summary:    summary,
	}
	if err := s.summaries.Append(ctx, rec); err != nil {
		return "", "", fmt.Errorf("failed to record summary: %w", err)
	}

	s.logger.Info("process image complete", "input_path", inputPath, "output_path", outputPath, "summary_chars", len(summary))
	return summary, outputPath, nil
}

// ProcessedName derives "{stem}_processed{ext}" from path, using ".jpg"
// when the input has no extension.
func ProcessedName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".jpg"
	}
	return stem + "_processed" + ext
}

// SynthesizeAll condenses every recorded summary into one overview. The
// chat backend is not called when nothing has been processed.
func (s *PipelineService) SynthesizeAll(ctx context.Context) (string, error) {
	records, err := s.summaries.LoadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load summaries: %w", err)
	}
	if len(records) == 0 {
		return NothingProcessedMessage, nil
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("- %s: %s", filepath.Base(rec.InputPath), rec.Summary))
	}

	s.logger.Info("synthesizing summaries", "records", len(records))
	preamble := fmt.Sprintf(synthesisPreamble, strings.Join(lines, "\n\n"))
	return s.analyzer.Narrate(ctx, preamble, synthesisPrompt), nil
}

// Records returns the raw summary log.
func (s *PipelineService) Records(ctx context.Context) ([]domain.ProcessingRecord, error) {
	records, err := s.summaries.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}
	return records, nil
}

type ClearResult struct {
	Uploads   photostore.PurgeResult `json:"uploads"`
	Processed photostore.PurgeResult `json:"processed"`
}

// ClearAll deletes every upload and processed artifact, then truncates the
// summary log. Per-file delete failures are counted, not fatal.
func (s *PipelineService) ClearAll(ctx context.Context) (ClearResult, error) {
	var result ClearResult

	up, err := s.uploads.Purge(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to purge uploads: %w", err)
	}
	result.Uploads = up

	proc, err := s.processed.Purge(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to purge processed files: %w", err)
	}
	result.Processed = proc

	if err := s.summaries.Clear(ctx); err != nil {
		return result, fmt.Errorf("failed to clear summary log: %w", err)
	}

	s.logger.Info("cleared all artifacts",
		"uploads_removed", up.Removed, "uploads_failed", up.Failed,
		"processed_removed", proc.Removed, "processed_failed", proc.Failed)
	return result, nil
}
