package luximmofetcher

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/contextkeys"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/port"
)

// Путь постраничной AJAX-выдачи карты относительно домена карточек
const searchEndpointPath = "/func/ajax/map_properties_ajax_responsive.php"

// Числовые токены в пути URL, отделенные дефисом или точкой.
// Последний такой токен — идентификатор объекта
// (например /sale-3-bedroom-apartment-varna-56714.html -> 56714).
var idTokenPattern = regexp.MustCompile(`[-.](\d+)`)

// FetchSearchPage загружает одну страницу выдачи карты и возвращает ссылки
// на карточки с извлеченными идентификаторами.
func (a *LuximmoFetcherAdapter) FetchSearchPage(ctx context.Context, bounds domain.SearchBounds, page int) ([]domain.PropertyLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LuximmoFetcherAdapter(FetchSearchPage)",
	})

	// Одноразовый клон для этого запроса: наследует лимиты,
	// но имеет свои собственные обработчики.
	collector := a.collector.Clone()

	var links []domain.PropertyLink
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Making request to fetch search page", port.Fields{
			"url":  r.URL.String(),
			"page": page,
		})
	})

	collector.OnResponse(func(r *colly.Response) {
		// Первый ответ выдачи сохраняем на диск: если портал поменяет
		// разметку, по этому файлу можно разобраться, что пришло.
		a.debugOnce.Do(func() {
			a.dumpDebugMarkup(logger, r.Body)
		})
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := normalizeListingURL(e.Attr("href"), a.pageBaseURL)
		if !referencesHost(href, a.pageHost) {
			return
		}
		id := extractPropertyID(href)
		if id == "" {
			// Ссылки без числового идентификатора молча пропускаем:
			// битая ссылка — не ошибка.
			return
		}
		links = append(links, domain.PropertyLink{ID: id, URL: href})
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("luximmo adapter: search page %d request failed with status %d: %w", page, r.StatusCode, err)
	})

	searchURL := a.buildSearchURL(bounds, page)
	if err := collector.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("luximmo adapter: failed to visit search page %d: %w", page, err)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}
	return links, nil
}

// buildSearchURL собирает адрес постраничной AJAX-выдачи карты.
// Endpoint живет на домене карточек; имена параметров (rwcountry, page)
// заданы порталом и менять их нельзя.
func (a *LuximmoFetcherAdapter) buildSearchURL(bounds domain.SearchBounds, page int) string {
	q := url.Values{}
	q.Set("ajax", "1")
	q.Set("rwcountry", bounds.Country)
	q.Set("lat1", strconv.FormatFloat(bounds.Lat1, 'f', -1, 64))
	q.Set("lat2", strconv.FormatFloat(bounds.Lat2, 'f', -1, 64))
	q.Set("lon1", strconv.FormatFloat(bounds.Lon1, 'f', -1, 64))
	q.Set("lon2", strconv.FormatFloat(bounds.Lon2, 'f', -1, 64))
	q.Set("page", strconv.Itoa(page))

	return a.pageBaseURL + searchEndpointPath + "?" + q.Encode()
}

func (a *LuximmoFetcherAdapter) dumpDebugMarkup(logger port.LoggerPort, body []byte) {
	if a.debugDir == "" {
		return
	}
	if err := os.MkdirAll(a.debugDir, 0755); err != nil {
		logger.Warn("Failed to create debug dir", port.Fields{"dir": a.debugDir, "error": err.Error()})
		return
	}
	path := filepath.Join(a.debugDir, "map.html")
	if err := os.WriteFile(path, body, 0644); err != nil {
		logger.Warn("Failed to write debug markup", port.Fields{"path": path, "error": err.Error()})
		return
	}
	logger.Debug("Saved raw search markup", port.Fields{"path": path})
}

// normalizeListingURL приводит href к каноничной абсолютной форме:
// протокол-относительные ссылки получают https, относительные пути
// разрешаются от базового адреса карточек, случайные двойные слэши
// в пути схлопываются.
func normalizeListingURL(href, pageBaseURL string) string {
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(href, "//"):
		href = "https:" + href
	case strings.HasPrefix(href, "/"):
		href = pageBaseURL + href
	}

	if i := strings.Index(href, "://"); i >= 0 {
		scheme, rest := href[:i+3], href[i+3:]
		for strings.Contains(rest, "//") {
			rest = strings.ReplaceAll(rest, "//", "/")
		}
		href = scheme + rest
	}
	return href
}

func referencesHost(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == host
}

// extractPropertyID возвращает последний числовой токен из пути URL
// или пустую строку, если идентификатора в ссылке нет.
func extractPropertyID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	matches := idTokenPattern.FindAllStringSubmatch(u.Path, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}
