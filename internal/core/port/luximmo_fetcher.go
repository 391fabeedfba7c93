package port

import (
	"context"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
)

// LuximmoFetcherPort объединяет все операции, которые можно выполнить
// с сайтом Luximmo. За портом скрыт настроенный HTTP-клиент со своими
// таймаутами, заголовками и лимитами.
type LuximmoFetcherPort interface {
	// FetchSearchPage загружает одну страницу выдачи карты и возвращает
	// все найденные на ней ссылки на карточки. Ссылки без извлекаемого
	// идентификатора отбрасываются еще на этом уровне.
	FetchSearchPage(ctx context.Context, bounds domain.SearchBounds, page int) ([]domain.PropertyLink, error)

	// FetchListing загружает карточку объекта и извлекает из нее
	// структурированную запись. Если карточка удалена, возвращает
	// domain.ErrListingNotFound.
	FetchListing(ctx context.Context, url string) (*domain.ListingRecord, error)
}
