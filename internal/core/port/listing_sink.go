package port

import (
	"context"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
)

// ListingSinkPort определяет контракт для записи готовой ListingRecord
// в приемник: файл, базу данных или очередь. Save может вызываться
// из нескольких горутин одновременно, реализация обязана сериализовать
// запись сама.
type ListingSinkPort interface {
	Save(ctx context.Context, record domain.ListingRecord) error

	// Close сбрасывает буферы и освобождает ресурсы приемника.
	Close() error
}
