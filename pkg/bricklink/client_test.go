package bricklink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jsherman999/LegoEater/pkg/config"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"github.com/jsherman999/LegoEater/pkg/oauth1"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "bricklink-test", Output: io.Discard})
}

func testConfig(baseURL string) config.BrickLinkConfig {
	return config.BrickLinkConfig{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		TokenValue:     "tv",
		TokenSecret:    "ts",
		BaseURL:        baseURL,
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(testConfig(baseURL), testLogger(),
		oauth1.WithNonce(func() string { return "fixednonce" }),
		oauth1.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	require.NoError(t, err)
	return client
}

func TestPriceGuide(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"guide_type":    r.URL.Query().Get("guide_type"),
			"new_or_used":   r.URL.Query().Get("new_or_used"),
			"currency_code": r.URL.Query().Get("currency_code"),
		}
		w.Write([]byte(`{"meta":{"code":200},"data":{"avg_price":129.5,"min_price":90,"max_price":180,"total_quantity":14}}`))
	}))
	defer server.Close()

	guide, err := newTestClient(t, server.URL).PriceGuide(context.Background(), "75192", ConditionNew)
	require.NoError(t, err)
	require.NotNil(t, guide)

	require.Equal(t, "/items/set/75192/price", gotPath)
	require.Equal(t, "sold", gotQuery["guide_type"])
	require.Equal(t, "N", gotQuery["new_or_used"])
	require.Equal(t, "USD", gotQuery["currency_code"])
	require.True(t, strings.HasPrefix(gotAuth, "OAuth "), "authorization = %q", gotAuth)
	require.Contains(t, gotAuth, "oauth_signature=")
	require.Contains(t, gotAuth, `oauth_nonce="fixednonce"`)

	require.NotNil(t, guide.AvgPrice)
	require.Equal(t, 129.5, *guide.AvgPrice)
	require.NotNil(t, guide.TotalQuantity)
	require.Equal(t, 14, *guide.TotalQuantity)
}

func TestPriceGuideNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"code":200,"message":"OK"},"data":null}`))
	}))
	defer server.Close()

	guide, err := newTestClient(t, server.URL).PriceGuide(context.Background(), "75192", ConditionUsed)
	require.NoError(t, err)
	require.Nil(t, guide)
}

func TestPriceGuideServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).PriceGuide(context.Background(), "75192", ConditionNew)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRemote), "err = %v", err)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	cfg := testConfig("https://example.com")
	cfg.TokenSecret = ""
	_, err := NewClient(cfg, testLogger())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConfig), "err = %v", err)
}
