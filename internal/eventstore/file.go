package eventstore

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one append-only JSON-lines log per account under a data
// directory. Each Append writes a single line and fsyncs before returning,
// so a confirmed write survives a crash.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFile builds a file-backed event store rooted at dir, creating the
// directory if needed.
func NewFile(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(accountID string) (string, error) {
	if accountID == "" || strings.ContainsAny(accountID, "/\\") || strings.Contains(accountID, "..") {
		return "", ErrInvalidAccountID
	}
	return filepath.Join(s.dir, accountID+".log"), nil
}

// Append writes the record as one JSON line and syncs the file. A failure
// at any step reports ErrAppendFailed; the caller must assume the event was
// not persisted.
func (s *FileStore) Append(_ context.Context, accountID string, rec Record) error {
	path, err := s.path(accountID)
	if err != nil {
		return err
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrAppendFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open: %v", ErrAppendFailed, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: write: %v", ErrAppendFailed, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrAppendFailed, err)
	}
	return nil
}

// ReadAll loads the full log for the account in append order. A torn or
// unparsable line fails the whole read; replay must not silently skip
// history.
func (s *FileStore) ReadAll(_ context.Context, accountID string) ([]Record, error) {
	path, err := s.path(accountID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log %s: %w", accountID, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("corrupt log %s line %d: %w", accountID, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log %s: %w", accountID, err)
	}
	return records, nil
}
