package domain

import "errors"

// PropertyLink — ссылка на карточку объекта вместе с извлеченным из URL
// числовым идентификатором. Идентификатор стабилен для всех вариантов
// написания URL одного и того же объекта.
type PropertyLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SearchBounds — параметры запроса к карте: страна и географические границы.
type SearchBounds struct {
	Country string
	Lat1    float64
	Lat2    float64
	Lon1    float64
	Lon2    float64
}

// ScanOutcome — исход обработки одной страницы выдачи.
// От него зависит, продолжается ли пагинация.
type ScanOutcome int

const (
	ScanNewItems ScanOutcome = iota // на странице были новые идентификаторы
	ScanNoNewItems                  // страница целиком из дубликатов
	ScanPageFailed                  // страницу не удалось загрузить
)

func (o ScanOutcome) String() string {
	switch o {
	case ScanNewItems:
		return "new_items"
	case ScanNoNewItems:
		return "no_new_items"
	case ScanPageFailed:
		return "page_failed"
	}
	return "unknown"
}

// ErrListingNotFound означает, что карточка удалена или истекла.
// Это штатный исход (объект снят с продажи), а не ошибка парсинга.
// Такие карточки молча исключаются из результата.
var ErrListingNotFound = errors.New("listing not found")
