package constants

import "time"

// Базовые адреса Luximmo: AJAX-выдача карты и англоязычные карточки живут
// на .com, болгарская карта (.bg) разрешена для переходов по ссылкам.
const (
	MapBaseURL  = "https://www.luximmo.bg"
	PageBaseURL = "https://www.luximmo.com"
)

// Параметры запроса к карте
const (
	DefaultCountry = "bulgaria"
)

// Границы Болгарии по умолчанию (весь портал)
const (
	DefaultLat1 = 41.2
	DefaultLat2 = 44.2
	DefaultLon1 = 22.3
	DefaultLon2 = 28.6
)

// Лимиты и таймауты
const (
	DefaultMaxPages       = 100
	DefaultWorkerCount    = 10
	DefaultRequestTimeout = 30 * time.Second
	DefaultProgressEvery  = 25
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/125.0.0.0 Safari/537.36"

// Пути артефактов
const (
	DefaultOutputPath = "data/items.jsonl"
	DefaultDebugDir   = "debug"
)

// NotFoundTitlePhrases — фразы в заголовке страницы, по которым карточка
// распознается как удаленная. Портал отдает заглушку на двух языках.
// Сравнение регистронезависимое, поэтому фразы хранятся в нижнем регистре.
var NotFoundTitlePhrases = []string{
	"the page has not been found",
	"страницата не е намерена",
}
