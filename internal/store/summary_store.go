package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/vbonduro/lensbot/internal/domain"
)

const (
	lockTimeout    = 2 * time.Second
	lockRetryDelay = 10 * time.Millisecond
	maxLineBytes   = 1 << 20
)

// ErrLockTimeout is returned when another holder keeps the summary log
// locked for longer than lockTimeout.
var ErrLockTimeout = errors.New("timed out waiting for summary log lock")

// SummaryStore is the append-only JSONL log of processed images. Writers in
// this process are serialized by mu; other processes sharing the file are
// serialized by an flock on "<path>.lock".
type SummaryStore struct {
	path     string
	mu       sync.Mutex
	fileLock *flock.Flock
	logger   *slog.Logger
}

// NewSummaryStore opens the log at path, creating it (and its directory)
// empty if it does not exist yet.
func NewSummaryStore(path string, logger *slog.Logger) (*SummaryStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create summary log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close summary log: %w", err)
	}

	return &SummaryStore{
		path:     path,
		fileLock: flock.New(path + ".lock"),
		logger:   logger,
	}, nil
}

func (s *SummaryStore) Path() string {
	return s.path
}

// Append writes rec as a single line and syncs it to disk before returning.
func (s *SummaryStore) Append(ctx context.Context, rec domain.ProcessingRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open summary log: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync summary log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close summary log: %w", err)
	}
	return nil
}

// LoadAll returns every record in append order. Blank lines are ignored and
// lines that fail to parse are logged and skipped.
func (s *SummaryStore) LoadAll(ctx context.Context) ([]domain.ProcessingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.ProcessingRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open summary log: %w", err)
	}
	defer f.Close()

	records := make([]domain.ProcessingRecord, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec domain.ProcessingRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.logger.Warn("skipping corrupt summary log line", "path", s.path, "line", lineNo, "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary log: %w", err)
	}
	return records, nil
}

// Clear truncates the log. Calling it on an empty or missing log is a no-op
// apart from (re)creating the empty file.
func (s *SummaryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to truncate summary log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close summary log: %w", err)
	}
	return nil
}

// lock takes the cross-process file lock, shared for readers and exclusive
// for writers. Caller must hold s.mu.
func (s *SummaryStore) lock(ctx context.Context, shared bool) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if shared {
		locked, err = s.fileLock.TryRLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = s.fileLock.TryLockContext(lockCtx, lockRetryDelay)
	}

	switch {
	case err == nil && locked:
	case ctx.Err() != nil:
		return nil, fmt.Errorf("failed to acquire summary log lock: %w", ctx.Err())
	case err == nil, errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w after %s", ErrLockTimeout, lockTimeout)
	default:
		return nil, fmt.Errorf("failed to acquire summary log lock: %w", err)
	}

	return func() {
		if err := s.fileLock.Unlock(); err != nil {
			s.logger.Error("failed to release summary log lock", "error", err)
		}
	}, nil
}
