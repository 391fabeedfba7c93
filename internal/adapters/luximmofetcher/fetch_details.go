package luximmofetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/contextkeys"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/port"
)

// FetchListing загружает карточку объекта и извлекает из нее запись.
func (a *LuximmoFetcherAdapter) FetchListing(ctx context.Context, pageURL string) (*domain.ListingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LuximmoFetcherAdapter(FetchListing)",
	})

	collector := a.collector.Clone()

	var record *domain.ListingRecord
	var criticalError error

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Making request to fetch listing page", port.Fields{
			"url": r.URL.String(),
		})
	})

	collector.OnResponse(func(r *colly.Response) {
		if criticalError != nil || record != nil {
			return
		}

		rec, err := ExtractListing(r.Body, pageURL, a.notFoundPhrases)
		if err != nil {
			// ErrListingNotFound тоже уходит наверх: для вызывающего это
			// штатный исход, который он распознает через errors.Is.
			criticalError = err
			return
		}
		record = rec
	})

	collector.OnError(func(r *colly.Response, err error) {
		// Если страница не найдена (404) или удалена (410), это не ошибка
		// парсинга — объект снят с публикации.
		if r.StatusCode == http.StatusNotFound || r.StatusCode == http.StatusGone {
			criticalError = domain.ErrListingNotFound
			return
		}

		criticalError = fmt.Errorf("luximmo adapter: request to %s failed with status %d: %w", pageURL, r.StatusCode, err)
	})

	visitErr := collector.Visit(pageURL)
	collector.Wait()

	// OnError проверяется первым: при HTTP-ошибке Visit возвращает тот же
	// сбой в сыром виде, а обработчик уже отобразил его на доменный исход.
	if criticalError != nil {
		return nil, criticalError
	}
	if visitErr != nil {
		return nil, fmt.Errorf("luximmo adapter: failed to visit listing page %s: %w", pageURL, visitErr)
	}
	if record == nil {
		return nil, fmt.Errorf("luximmo adapter: no response received for %s", pageURL)
	}
	return record, nil
}
