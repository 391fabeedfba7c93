package usecase

import (
	"context"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/contextkeys"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/port"
)

// CollectLinksUseCase инкапсулирует логику сбора ссылок с карты:
// постраничный обход выдачи с дедупликацией по идентификатору объекта.
type CollectLinksUseCase struct {
	fetcher port.LuximmoFetcherPort
}

// NewCollectLinksUseCase создает новый экземпляр use case.
func NewCollectLinksUseCase(fetcher port.LuximmoFetcherPort) *CollectLinksUseCase {
	return &CollectLinksUseCase{
		fetcher: fetcher,
	}
}

// Execute обходит страницы выдачи 1..maxPages и возвращает уникальные ссылки
// в порядке первого обнаружения. Обход останавливается, как только страница
// не приносит ни одного нового идентификатора: портал отдает выдачу в
// стабильном порядке, поэтому страница целиком из дубликатов означает конец
// данных. Неудачная загрузка страницы трактуется так же — как конец выдачи,
// а не как фатальная ошибка.
//
// Отмена контекста проверяется на границе страниц; собранное к этому моменту
// возвращается как валидный частичный результат.
func (uc *CollectLinksUseCase) Execute(ctx context.Context, bounds domain.SearchBounds, maxPages int) ([]domain.PropertyLink, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CollectLinks",
	})

	logger.Info("Starting link collection", port.Fields{
		"country":   bounds.Country,
		"max_pages": maxPages,
	})

	// Состояние сбора живет только внутри этого вызова: множество уже
	// виденных идентификаторов и накопленный список ссылок.
	seen := make(map[string]struct{})
	var collected []domain.PropertyLink

	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			logger.Warn("Collection interrupted, returning partial result", port.Fields{
				"pages_done":  page - 1,
				"links_total": len(collected),
			})
			return collected, nil
		default:
		}

		links, err := uc.fetcher.FetchSearchPage(ctx, bounds, page)
		if err != nil {
			logger.Warn("Search page fetch failed, treating as end of data", port.Fields{
				"page":    page,
				"outcome": domain.ScanPageFailed.String(),
				"error":   err.Error(),
			})
			break
		}

		newOnPage := 0
		for _, link := range links {
			// Дубликат проверяется по всему множеству, а не по текущей
			// странице: повторы между страницами тоже должны отсеиваться.
			if _, ok := seen[link.ID]; ok {
				continue
			}
			seen[link.ID] = struct{}{}
			collected = append(collected, link)
			newOnPage++
		}

		outcome := domain.ScanNewItems
		if newOnPage == 0 {
			outcome = domain.ScanNoNewItems
		}

		logger.Info("Search page processed", port.Fields{
			"page":        page,
			"outcome":     outcome.String(),
			"new_links":   newOnPage,
			"links_total": len(collected),
		})

		if outcome == domain.ScanNoNewItems {
			break
		}
	}

	logger.Info("Link collection finished", port.Fields{
		"links_total": len(collected),
	})
	return collected, nil
}
