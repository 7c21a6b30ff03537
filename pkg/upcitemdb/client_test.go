package upcitemdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsherman999/LegoEater/pkg/config"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "upcitemdb-test", Output: io.Discard})
}

func TestLookup(t *testing.T) {
	var gotUPC string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUPC = r.URL.Query().Get("upc")
		w.Write([]byte(`{"items":[{"title":"LEGO Star Wars Millennium Falcon 75192"},{"title":"Display stand"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.BarcodeConfig{BaseURL: server.URL}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	items, err := client.Lookup(context.Background(), "673419248341")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if gotUPC != "673419248341" {
		t.Fatalf("upc param = %q", gotUPC)
	}
	if len(items) != 2 || items[0].Title != "LEGO Star Wars Millennium Falcon 75192" {
		t.Fatalf("items = %+v", items)
	}
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(config.BarcodeConfig{BaseURL: server.URL}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Lookup(context.Background(), "673419248341")
	if !pkgerrors.IsCode(err, pkgerrors.CodeRemote) {
		t.Fatalf("expected CodeRemote, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.BarcodeConfig{}, testLogger())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConfig) {
		t.Fatalf("expected CodeConfig, got %v", err)
	}
}
