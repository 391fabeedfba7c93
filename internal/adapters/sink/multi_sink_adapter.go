package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/port"
)

// MultiSinkAdapter раздает каждую запись во все настроенные приемники.
// Ошибка одного приемника не мешает остальным получить запись.
type MultiSinkAdapter struct {
	sinks []port.ListingSinkPort
}

func NewMultiSinkAdapter(sinks ...port.ListingSinkPort) (port.ListingSinkPort, error) {
	if len(sinks) == 0 {
		return nil, fmt.Errorf("multisink: at least one sink is required")
	}
	return &MultiSinkAdapter{sinks: sinks}, nil
}

func (m *MultiSinkAdapter) Save(ctx context.Context, record domain.ListingRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Save(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSinkAdapter) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
