package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/configs"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/constants"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply without environment overrides", func(t *testing.T) {
		cfg, err := configs.LoadConfig("testdata/absent.env")
		require.NoError(t, err)

		assert.Equal(t, constants.MapBaseURL, cfg.Scraper.MapBaseURL)
		assert.Equal(t, constants.PageBaseURL, cfg.Scraper.PageBaseURL)
		assert.Equal(t, constants.DefaultCountry, cfg.Scraper.Country)
		assert.Equal(t, constants.DefaultMaxPages, cfg.Scraper.MaxPages)
		assert.Equal(t, constants.DefaultWorkerCount, cfg.Scraper.WorkerCount)
		assert.Equal(t, constants.DefaultRequestTimeout, cfg.Scraper.RequestTimeout)
		assert.Equal(t, constants.DefaultOutputPath, cfg.Scraper.OutputPath)
		assert.Empty(t, cfg.Database.URL)
		assert.Empty(t, cfg.RabbitMQ.URL)
		assert.False(t, cfg.FluentBit.Enabled)
		assert.Equal(t, "info", cfg.StdoutLogLevel)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("SEARCH_COUNTRY", "greece")
		t.Setenv("SEARCH_LAT1", "34.8")
		t.Setenv("SEARCH_MAX_PAGES", "5")
		t.Setenv("WORKER_COUNT", "3")
		t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
		t.Setenv("OUTPUT_PATH", "out/greece.jsonl")
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/listings")

		cfg, err := configs.LoadConfig("testdata/absent.env")
		require.NoError(t, err)

		assert.Equal(t, "greece", cfg.Scraper.Country)
		assert.Equal(t, 34.8, cfg.Scraper.Lat1)
		assert.Equal(t, 5, cfg.Scraper.MaxPages)
		assert.Equal(t, 3, cfg.Scraper.WorkerCount)
		assert.Equal(t, 7*time.Second, cfg.Scraper.RequestTimeout)
		assert.Equal(t, "out/greece.jsonl", cfg.Scraper.OutputPath)
		assert.Equal(t, "postgres://localhost:5432/listings", cfg.Database.URL)
	})

	t.Run("unparseable numeric value falls back to default", func(t *testing.T) {
		t.Setenv("SEARCH_MAX_PAGES", "many")
		t.Setenv("SEARCH_LAT2", "north")

		cfg, err := configs.LoadConfig("testdata/absent.env")
		require.NoError(t, err)

		assert.Equal(t, constants.DefaultMaxPages, cfg.Scraper.MaxPages)
		assert.Equal(t, constants.DefaultLat2, cfg.Scraper.Lat2)
	})

	t.Run("fluent bit without host is disabled", func(t *testing.T) {
		t.Setenv("FLUENTBIT_ENABLED", "true")

		cfg, err := configs.LoadConfig("testdata/absent.env")
		require.NoError(t, err)

		assert.False(t, cfg.FluentBit.Enabled)
	})

	t.Run("fluent bit enabled with host gets port default", func(t *testing.T) {
		t.Setenv("FLUENTBIT_ENABLED", "true")
		t.Setenv("FLUENTBIT_HOST", "fluent-bit")

		cfg, err := configs.LoadConfig("testdata/absent.env")
		require.NoError(t, err)

		require.True(t, cfg.FluentBit.Enabled)
		assert.Equal(t, "fluent-bit", cfg.FluentBit.Host)
		assert.Equal(t, 24224, cfg.FluentBit.Port)
		assert.Equal(t, "info", cfg.FluentBit.Level)
	})
}
