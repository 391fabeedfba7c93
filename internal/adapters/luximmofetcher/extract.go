package luximmofetcher

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
)

// Таблица правил извлечения полей по css-селекторам.
// Изменения разметки портала требуют правки данных, а не логики.
type selectorRule struct {
	selector string
	assign   func(*domain.ListingRecord, *string)
}

var selectorRules = []selectorRule{
	{"h1", func(r *domain.ListingRecord, v *string) { r.Title = v }},
	{".price strong", func(r *domain.ListingRecord, v *string) { r.Price = v }},
	// span с классом внутри .price — это не валюта, отсекаем его селектором
	{".price span:not([class])", func(r *domain.ListingRecord, v *string) { r.Currency = v }},
	{`[itemprop="address"]`, func(r *domain.ListingRecord, v *string) { r.Location = v }},
	{".consultant-box .name", func(r *domain.ListingRecord, v *string) { r.Agent = v }},
	{".consultant-box .phone", func(r *domain.ListingRecord, v *string) { r.Phone = v }},
	{".description", func(r *domain.ListingRecord, v *string) { r.Description = v }},
}

// Числовые характеристики лежат в списке "метка + значение".
// Ключевое слово метки регистрозависимо, выигрывает первое совпадение.
type labelRule struct {
	keyword string
	assign  func(*domain.ListingRecord, *string)
}

var labelRules = []labelRule{
	{"Area", func(r *domain.ListingRecord, v *string) { r.AreaM2 = v }},
	{"Bedrooms", func(r *domain.ListingRecord, v *string) { r.Bedrooms = v }},
	{"Bathrooms", func(r *domain.ListingRecord, v *string) { r.Bathrooms = v }},
}

// ExtractListing разбирает разметку карточки и возвращает запись.
// Каждое поле извлекается независимо: несовпавший селектор дает null-поле,
// а не ошибку всей записи. Если заголовок страницы совпадает с одной из
// фраз-заглушек, возвращается domain.ErrListingNotFound.
func ExtractListing(body []byte, sourceURL string, notFoundPhrases []string) (*domain.ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("luximmo extract: failed to parse markup for %s: %w", sourceURL, err)
	}

	pageTitle := strings.TrimSpace(doc.Find("title").First().Text())
	if pageTitle == "" {
		pageTitle = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	// Заглавие заглушки сравнивается без учета регистра
	loweredTitle := strings.ToLower(pageTitle)
	for _, phrase := range notFoundPhrases {
		if phrase != "" && strings.Contains(loweredTitle, strings.ToLower(phrase)) {
			return nil, domain.ErrListingNotFound
		}
	}

	record := &domain.ListingRecord{
		URL:       sourceURL,
		ScrapedAt: time.Now().Unix(),
	}

	for _, rule := range selectorRules {
		if v := selectText(doc, rule.selector); v != nil {
			rule.assign(record, v)
		}
	}

	for _, rule := range labelRules {
		if v := labelledValue(doc, rule.keyword); v != nil {
			rule.assign(record, v)
		}
	}

	return record, nil
}

// selectText возвращает обрезанный текст первого совпавшего элемента
// или nil, если совпадений нет или текст пустой.
func selectText(doc *goquery.Document, selector string) *string {
	el := doc.Find(selector).First()
	if el.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return nil
	}
	return &text
}

// labelledValue ищет первый элемент списка, текст которого содержит ключевое
// слово (с учетом регистра), и читает значение из вложенного span.
// Первая совпавшая метка окончательна: пустой span дает nil, а не значение
// из следующего совпадения.
func labelledValue(doc *goquery.Document, keyword string) *string {
	var value *string
	doc.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if !strings.Contains(li.Text(), keyword) {
			return true
		}
		if text := strings.TrimSpace(li.Find("span").First().Text()); text != "" {
			value = &text
		}
		return false
	})
	return value
}
