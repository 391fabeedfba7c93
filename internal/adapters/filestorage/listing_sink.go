package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
)

// ListingFileSink реализует ListingSinkPort для записи в файл:
// по одной JSON-строке на объект (JSONL). Файл пересоздается при старте,
// в рамках одного запуска запись только дозаписывается.
type ListingFileSink struct {
	filename string
	mu       sync.Mutex // Для безопасной записи из нескольких горутин
	file     *os.File
	enc      *json.Encoder
}

// NewListingFileSink создает новый адаптер и сразу пересоздает выходной файл.
func NewListingFileSink(filename string) (*ListingFileSink, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output dir '%s': %w", dir, err)
		}
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file '%s': %w", filename, err)
	}

	enc := json.NewEncoder(file)
	// Кириллица и прочий не-ASCII текст пишется как есть, без \u-экранирования
	enc.SetEscapeHTML(false)

	return &ListingFileSink{
		filename: filename,
		file:     file,
		enc:      enc,
	}, nil
}

// Save дописывает одну JSON-строку в файл. Encoder пишет сразу в файл,
// без промежуточного буфера: записанное до прерывания уже на диске.
func (s *ListingFileSink) Save(_ context.Context, record domain.ListingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("file sink '%s' is already closed", s.filename)
	}

	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("failed to write listing record for %s: %w", record.URL, err)
	}
	return nil
}

// Close закрывает выходной файл. Повторный вызов безопасен.
func (s *ListingFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("failed to close output file '%s': %w", s.filename, err)
	}
	return nil
}
