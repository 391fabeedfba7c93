package luximmofetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/constants"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
)

const sampleListingHTML = `<!DOCTYPE html>
<html>
<head><title>Three-bedroom apartment in Varna - LUXIMMO</title></head>
<body>
<h1>Three-bedroom apartment with sea view</h1>
<div class="price"><strong>250 000</strong><span class="old-price">260 000</span><span>EUR</span></div>
<div itemprop="address">Varna, Briz quarter</div>
<ul class="details">
  <li>Area: <span>145 m2</span></li>
  <li>Bedrooms: <span>3</span></li>
  <li>Bathrooms: <span>2</span></li>
</ul>
<div class="consultant-box">
  <div class="name">Ivan Petrov</div>
  <div class="phone">+359 888 123 456</div>
</div>
<div class="description">Просторен апартамент с морска гледка.</div>
</body>
</html>`

func TestExtractListing(t *testing.T) {
	t.Parallel()

	sourceURL := "https://www.luximmo.com/sale-3-bedroom-apartment-varna-56714.html"

	t.Run("extracts all fields from a complete page", func(t *testing.T) {
		t.Parallel()

		record, err := ExtractListing([]byte(sampleListingHTML), sourceURL, constants.NotFoundTitlePhrases)
		require.NoError(t, err)

		assert.Equal(t, sourceURL, record.URL)
		require.NotNil(t, record.Title)
		assert.Equal(t, "Three-bedroom apartment with sea view", *record.Title)
		require.NotNil(t, record.Price)
		assert.Equal(t, "250 000", *record.Price)
		require.NotNil(t, record.Currency)
		assert.Equal(t, "EUR", *record.Currency)
		require.NotNil(t, record.Location)
		assert.Equal(t, "Varna, Briz quarter", *record.Location)
		require.NotNil(t, record.AreaM2)
		assert.Equal(t, "145 m2", *record.AreaM2)
		require.NotNil(t, record.Bedrooms)
		assert.Equal(t, "3", *record.Bedrooms)
		require.NotNil(t, record.Bathrooms)
		assert.Equal(t, "2", *record.Bathrooms)
		require.NotNil(t, record.Agent)
		assert.Equal(t, "Ivan Petrov", *record.Agent)
		require.NotNil(t, record.Phone)
		assert.Equal(t, "+359 888 123 456", *record.Phone)
		require.NotNil(t, record.Description)
		assert.Equal(t, "Просторен апартамент с морска гледка.", *record.Description)
		assert.Greater(t, record.ScrapedAt, int64(0))
	})

	t.Run("missing fields become nil, extraction never fails", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Listing</title></head><body><h1>Bare listing</h1></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)
		require.NoError(t, err)

		require.NotNil(t, record.Title)
		assert.Equal(t, "Bare listing", *record.Title)
		assert.Nil(t, record.Price)
		assert.Nil(t, record.Currency)
		assert.Nil(t, record.Location)
		assert.Nil(t, record.AreaM2)
		assert.Nil(t, record.Bedrooms)
		assert.Nil(t, record.Bathrooms)
		assert.Nil(t, record.Agent)
		assert.Nil(t, record.Phone)
		assert.Nil(t, record.Description)
		assert.Equal(t, sourceURL, record.URL)
	})

	t.Run("recognizes not found page in english", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>The page has not been found - LUXIMMO</title></head><body></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)

		assert.ErrorIs(t, err, domain.ErrListingNotFound)
		assert.Nil(t, record)
	})

	t.Run("not found phrase match ignores title case", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>THE PAGE HAS NOT BEEN FOUND</title></head><body></body></html>`
		_, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)

		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("recognizes not found page in bulgarian", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Страницата не е намерена</title></head><body></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)

		assert.ErrorIs(t, err, domain.ErrListingNotFound)
		assert.Nil(t, record)
	})

	t.Run("falls back to h1 when title element is empty", func(t *testing.T) {
		t.Parallel()

		html := `<html><head></head><body><h1>The page has not been found</h1></body></html>`
		_, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)

		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("label keyword is case sensitive", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul><li>area: <span>99 m2</span></li></ul></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)
		require.NoError(t, err)

		assert.Nil(t, record.AreaM2)
	})

	t.Run("first label match wins", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul>
			<li>Bedrooms: <span>3</span></li>
			<li>Bedrooms (upper floor): <span>5</span></li>
		</ul></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)
		require.NoError(t, err)

		require.NotNil(t, record.Bedrooms)
		assert.Equal(t, "3", *record.Bedrooms)
	})

	t.Run("first matching label with empty value stays null", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul>
			<li>Bedrooms: <span></span></li>
			<li>Bedrooms (upper floor): <span>5</span></li>
		</ul></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)
		require.NoError(t, err)

		assert.Nil(t, record.Bedrooms)
	})

	t.Run("skips price span with a class attribute", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="price"><strong>100</strong><span class="old">120</span></div></body></html>`
		record, err := ExtractListing([]byte(html), sourceURL, constants.NotFoundTitlePhrases)
		require.NoError(t, err)

		require.NotNil(t, record.Price)
		assert.Equal(t, "100", *record.Price)
		assert.Nil(t, record.Currency)
	})
}
