package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/usecase"
)

// fakeSink — тестовая реализация ListingSinkPort
type fakeSink struct {
	mu      sync.Mutex
	records []domain.ListingRecord
	saveErr error
}

func (s *fakeSink) Save(_ context.Context, record domain.ListingRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *fakeSink) Close() error { return nil }

func (s *fakeSink) saved() []domain.ListingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ListingRecord, len(s.records))
	copy(out, s.records)
	return out
}

func strPtr(s string) *string { return &s }

func TestProcessListings(t *testing.T) {
	t.Parallel()

	t.Run("saves successful records and drops not found and failed", func(t *testing.T) {
		t.Parallel()

		links := []domain.PropertyLink{
			{ID: "1", URL: "https://www.luximmo.com/sale-apartment-1.html"},
			{ID: "2", URL: "https://www.luximmo.com/sale-apartment-2.html"},
			{ID: "3", URL: "https://www.luximmo.com/sale-apartment-3.html"},
			{ID: "4", URL: "https://www.luximmo.com/sale-apartment-4.html"},
		}
		fetcher := &fakeFetcher{
			fetchListingFn: func(_ context.Context, url string) (*domain.ListingRecord, error) {
				switch url {
				case links[1].URL:
					// карточка снята с публикации
					return nil, domain.ErrListingNotFound
				case links[2].URL:
					return nil, fmt.Errorf("request timed out")
				default:
					return &domain.ListingRecord{
						URL:       url,
						Title:     strPtr("Apartment"),
						ScrapedAt: time.Now().Unix(),
					}, nil
				}
			},
		}
		sink := &fakeSink{}

		uc := usecase.NewProcessListingsUseCase(fetcher, sink, 2)
		stats, err := uc.Execute(context.Background(), links)

		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.Saved)
		assert.Equal(t, 1, stats.NotFound)
		assert.Equal(t, 1, stats.Failed)

		saved := sink.saved()
		require.Len(t, saved, 2)
		for _, rec := range saved {
			assert.NotEmpty(t, rec.URL)
		}
	})

	t.Run("never exceeds configured worker count", func(t *testing.T) {
		t.Parallel()

		const workers = 3
		const numLinks = 20

		var maxConcurrent atomic.Int32
		var currentConcurrent atomic.Int32

		links := make([]domain.PropertyLink, 0, numLinks)
		for i := 0; i < numLinks; i++ {
			links = append(links, domain.PropertyLink{
				ID:  fmt.Sprintf("%d", i),
				URL: fmt.Sprintf("https://www.luximmo.com/sale-apartment-%d.html", i),
			})
		}

		fetcher := &fakeFetcher{
			fetchListingFn: func(_ context.Context, url string) (*domain.ListingRecord, error) {
				current := currentConcurrent.Add(1)
				for {
					max := maxConcurrent.Load()
					if current <= max || maxConcurrent.CompareAndSwap(max, current) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				currentConcurrent.Add(-1)
				return &domain.ListingRecord{URL: url, ScrapedAt: time.Now().Unix()}, nil
			},
		}
		sink := &fakeSink{}

		uc := usecase.NewProcessListingsUseCase(fetcher, sink, workers)
		stats, err := uc.Execute(context.Background(), links)

		require.NoError(t, err)
		assert.Equal(t, numLinks, stats.Saved)
		assert.LessOrEqual(t, maxConcurrent.Load(), int32(workers))
	})

	t.Run("counts sink failures", func(t *testing.T) {
		t.Parallel()

		links := []domain.PropertyLink{
			{ID: "1", URL: "https://www.luximmo.com/sale-apartment-1.html"},
		}
		fetcher := &fakeFetcher{
			fetchListingFn: func(_ context.Context, url string) (*domain.ListingRecord, error) {
				return &domain.ListingRecord{URL: url}, nil
			},
		}
		sink := &fakeSink{saveErr: fmt.Errorf("disk full")}

		uc := usecase.NewProcessListingsUseCase(fetcher, sink, 1)
		stats, err := uc.Execute(context.Background(), links)

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 0, stats.Saved)
	})

	t.Run("stops dispatching after cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // отмена до старта: ни одна ссылка не должна уйти в работу

		links := pageOf("1", "2", "3")
		var fetches atomic.Int32
		fetcher := &fakeFetcher{
			fetchListingFn: func(_ context.Context, url string) (*domain.ListingRecord, error) {
				fetches.Add(1)
				return &domain.ListingRecord{URL: url}, nil
			},
		}
		sink := &fakeSink{}

		uc := usecase.NewProcessListingsUseCase(fetcher, sink, 2)
		stats, err := uc.Execute(ctx, links)

		require.NoError(t, err)
		assert.Equal(t, int32(0), fetches.Load())
		assert.Equal(t, 0, stats.Saved)
		assert.Empty(t, sink.saved())
	})
}
