package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gitisfun/price-tracker-api/internal/fingerprint"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(Config{Timeout: 5 * time.Second, UserAgent: "PriceTracker/1.0"}, logger)
}

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func productPage(title, integer, fraction string) string {
	return fmt.Sprintf(`<html><body>
		<h1><span data-test="title">%s</span></h1>
		<div data-test="prices">
			<span class="promo-price">%s<sup class="promo-price__fraction">%s</sup></span>
		</div>
	</body></html>`, title, integer, fraction)
}

func TestExtract_FullResult(t *testing.T) {
	srv := servePage(t, productPage("Coffee Machine", "38", "90"))

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Equal(t, fingerprint.Sum(srv.URL), result.ID)
	assert.Equal(t, srv.URL, result.URL)
	assert.False(t, result.Date.IsZero())
	require.NotNil(t, result.Title)
	assert.Equal(t, "Coffee Machine", *result.Title)
	require.NotNil(t, result.Price)
	assert.True(t, result.Price.Equal(decimal.RequireFromString("38.90")))
}

func TestExtract_TrimsWhitespaceAroundParts(t *testing.T) {
	srv := servePage(t, productPage("  Padded  ", "  38 ", " 90 "))

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	require.NotNil(t, result.Price)
	assert.True(t, result.Price.Equal(decimal.RequireFromString("38.90")))
	require.NotNil(t, result.Title)
	assert.Equal(t, "Padded", *result.Title)
}

func TestExtract_EmptyFraction_NoPrice(t *testing.T) {
	srv := servePage(t, productPage("Coffee Machine", "38", ""))

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Nil(t, result.Price)
	require.NotNil(t, result.Title)
	assert.Equal(t, "Coffee Machine", *result.Title)
}

func TestExtract_NonNumericIntegerPart_NoPrice(t *testing.T) {
	srv := servePage(t, productPage("Coffee Machine", "ab", "90"))

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Nil(t, result.Price)
}

func TestExtract_MissingPricesSection(t *testing.T) {
	srv := servePage(t, `<html><body><h1><span data-test="title">Bare Page</span></h1></body></html>`)

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Nil(t, result.Price)
	require.NotNil(t, result.Title)
	assert.Equal(t, "Bare Page", *result.Title)
}

func TestExtract_MissingPriceElement(t *testing.T) {
	srv := servePage(t, `<html><body><div data-test="prices"><span class="list-price">40</span></div></body></html>`)

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Nil(t, result.Price)
	assert.Nil(t, result.Title)
}

func TestExtract_MissingTitle_PriceStillExtracted(t *testing.T) {
	srv := servePage(t, `<html><body>
		<div data-test="prices">
			<span class="promo-price">12<sup class="promo-price__fraction">50</sup></span>
		</div>
	</body></html>`)

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Nil(t, result.Title)
	require.NotNil(t, result.Price)
	assert.True(t, result.Price.Equal(decimal.RequireFromString("12.50")))
}

func TestExtract_Non2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	result := testExtractor(t).Extract(context.Background(), srv.URL)

	assert.Nil(t, result.Price)
	assert.Nil(t, result.Title)
	assert.Equal(t, fingerprint.Sum(srv.URL), result.ID)
	assert.False(t, result.Date.IsZero())
}

func TestExtract_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := testExtractor(t).Extract(context.Background(), url)

	assert.Nil(t, result.Price)
	assert.Nil(t, result.Title)
	assert.Equal(t, fingerprint.Sum(url), result.ID)
	assert.False(t, result.Date.IsZero())
}

func TestExtract_InvalidURL(t *testing.T) {
	result := testExtractor(t).Extract(context.Background(), "://not-a-url")

	assert.Nil(t, result.Price)
	assert.Nil(t, result.Title)
	assert.Equal(t, fingerprint.Sum("://not-a-url"), result.ID)
	assert.False(t, result.Date.IsZero())
}
