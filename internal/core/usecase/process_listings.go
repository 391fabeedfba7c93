package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/constants"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/contextkeys"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/port"
)

// ProcessStats — итог обработки списка ссылок.
type ProcessStats struct {
	Total    int
	Saved    int
	NotFound int
	Failed   int
}

// ProcessListingsUseCase обрабатывает собранные ссылки: пул воркеров
// загружает карточки, парсит их и пишет успешные записи в приемник.
type ProcessListingsUseCase struct {
	fetcher       port.LuximmoFetcherPort
	sink          port.ListingSinkPort
	workers       int
	progressEvery int
}

// NewProcessListingsUseCase создает новый экземпляр use case.
// При workers <= 0 используется значение по умолчанию.
func NewProcessListingsUseCase(fetcher port.LuximmoFetcherPort, sink port.ListingSinkPort, workers int) *ProcessListingsUseCase {
	if workers <= 0 {
		workers = constants.DefaultWorkerCount
	}
	return &ProcessListingsUseCase{
		fetcher:       fetcher,
		sink:          sink,
		workers:       workers,
		progressEvery: constants.DefaultProgressEvery,
	}
}

// Execute прогоняет все ссылки через пул воркеров. Порядок записей на выходе
// не гарантируется — каждая запись несет свой URL, упорядочивание дальше по
// конвейеру не нужно. Удаленные карточки (ErrListingNotFound) молча
// пропускаются, ошибки загрузки роняют только свою ссылку, не весь пул.
//
// При отмене контекста раздача новых задач прекращается; все записи,
// сохраненные до отмены, уже записаны приемником.
func (uc *ProcessListingsUseCase) Execute(ctx context.Context, links []domain.PropertyLink) (ProcessStats, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ProcessListings",
	})

	total := len(links)
	logger.Info("Starting listing processing", port.Fields{
		"links_total": total,
		"workers":     uc.workers,
	})

	tasks := make(chan domain.PropertyLink)
	var wg sync.WaitGroup
	var processed, saved, notFound, failed atomic.Int64

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range tasks {
				uc.processOne(ctx, logger, link, &saved, &notFound, &failed)

				if n := processed.Add(1); uc.progressEvery > 0 && n%int64(uc.progressEvery) == 0 {
					logger.Info("Processing progress", port.Fields{
						"processed":   n,
						"links_total": total,
					})
				}
			}
		}()
	}

	cancelled := false
dispatch:
	for _, link := range links {
		// Проверка до select: при уже отмененном контексте select мог бы
		// случайно выбрать ветку отправки.
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break dispatch
		case tasks <- link:
		}
	}
	close(tasks)
	if cancelled {
		logger.Warn("Dispatch interrupted, waiting for in-flight fetches", port.Fields{
			"dispatched": processed.Load(),
		})
	}
	wg.Wait()

	stats := ProcessStats{
		Total:    total,
		Saved:    int(saved.Load()),
		NotFound: int(notFound.Load()),
		Failed:   int(failed.Load()),
	}

	logger.Info("Listing processing finished", port.Fields{
		"processed":   processed.Load(),
		"links_total": stats.Total,
		"saved":       stats.Saved,
		"not_found":   stats.NotFound,
		"failed":      stats.Failed,
	})
	return stats, nil
}

func (uc *ProcessListingsUseCase) processOne(ctx context.Context, logger port.LoggerPort, link domain.PropertyLink, saved, notFound, failed *atomic.Int64) {
	record, err := uc.fetcher.FetchListing(ctx, link.URL)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		// Снятая с продажи карточка — штатный исход, в выдачу не попадает.
		notFound.Add(1)
	case err != nil:
		failed.Add(1)
		logger.Warn("Listing fetch failed, skipping", port.Fields{
			"url":   link.URL,
			"error": err.Error(),
		})
	default:
		if saveErr := uc.sink.Save(ctx, *record); saveErr != nil {
			failed.Add(1)
			logger.Error("Failed to save listing record", saveErr, port.Fields{
				"url": link.URL,
			})
		} else {
			saved.Add(1)
		}
	}
}
