package luximmofetcher

import (
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// LuximmoFetcherAdapter отвечает за все взаимодействия с сайтом Luximmo.
// Он инкапсулирует в себе настроенный colly.Collector: выдача карты и
// англоязычные карточки запрашиваются с luximmo.com, домен luximmo.bg
// разрешен для переходов по ссылкам портала.
type LuximmoFetcherAdapter struct {
	// Один родительский коллектор, который разделяет лимиты между клонами
	collector *colly.Collector

	pageBaseURL string
	pageHost    string

	notFoundPhrases []string

	// Сырец первой страницы выдачи сохраняется один раз за запуск
	// для диагностики разметки.
	debugDir  string
	debugOnce sync.Once
}

// NewLuximmoFetcherAdapter — единый конструктор.
// parallelism ограничивает число одновременных запросов к порталу и должен
// совпадать с размером пула воркеров.
func NewLuximmoFetcherAdapter(mapBaseURL, pageBaseURL, userAgent string, parallelism int, timeout time.Duration, notFoundPhrases []string, debugDir string) *LuximmoFetcherAdapter {
	mapHost := mustHost(mapBaseURL)
	pageHost := mustHost(pageBaseURL)

	// Родительский коллектор создается один раз при инициализации адаптера.
	// Его настройки наследуются всеми клонами.
	c := colly.NewCollector(
		colly.AllowedDomains(mapHost, pageHost),
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(timeout)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*luximmo.*",
		Parallelism: parallelism,
	})
	if err != nil {
		// В конструкторе можно паниковать, если базовые настройки неверны
		log.Fatalf("Failed to set limit rule: %v", err)
	}

	return &LuximmoFetcherAdapter{
		collector:       c,
		pageBaseURL:     pageBaseURL,
		pageHost:        pageHost,
		notFoundPhrases: notFoundPhrases,
		debugDir:        debugDir,
	}
}

func mustHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		log.Fatalf("Invalid base URL %q: %v", rawURL, err)
	}
	return u.Host
}
