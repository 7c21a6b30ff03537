package upcitemdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jsherman999/LegoEater/pkg/config"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// Item is one candidate product returned for a barcode.
type Item struct {
	Title string `json:"title"`
}

type lookupResponse struct {
	Items []Item `json:"items"`
}

// Client queries the barcode lookup provider.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient builds a barcode lookup client.
func NewClient(cfg config.BarcodeConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "barcode lookup base url is required")
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logg,
	}, nil
}

// Lookup returns the candidate items listed for the barcode.
func (c *Client) Lookup(ctx context.Context, barcode string) ([]Item, error) {
	endpoint := fmt.Sprintf("%s?upc=%s", c.baseURL, url.QueryEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building barcode request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "barcode request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeRemote, fmt.Sprintf("barcode request failed (%d)", resp.StatusCode))
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "decoding barcode response")
	}
	return payload.Items, nil
}
