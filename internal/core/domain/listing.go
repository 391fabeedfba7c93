package domain

// ListingRecord — итоговая запись по одному объекту недвижимости.
// Создается один раз после успешного парсинга карточки и больше не меняется.
// Все поля, кроме URL и ScrapedAt, опциональны: отсутствие значения на
// странице — это не ошибка, в JSON такое поле сериализуется как null.
type ListingRecord struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Price       *string `json:"price"`
	Currency    *string `json:"currency"`
	Location    *string `json:"location"`
	AreaM2      *string `json:"area_m2"`
	Bedrooms    *string `json:"bedrooms"`
	Bathrooms   *string `json:"bathrooms"`
	Agent       *string `json:"agent"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`

	// ScrapedAt — unix-время (секунды) на момент парсинга.
	// Используется для аудита свежести данных, не для уникальности.
	ScrapedAt int64 `json:"scraped_at"`
}
