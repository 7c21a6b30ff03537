package rebrickable

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

// Set is the catalog record shape returned by the provider.
type Set struct {
	SetNum         string  `json:"set_num"`
	Name           string  `json:"name"`
	Year           *int    `json:"year"`
	ThemeID        *int    `json:"theme_id"`
	NumParts       *int    `json:"num_parts"`
	SetImgURL      *string `json:"set_img_url"`
	LastModifiedDt *string `json:"last_modified_dt"`
}

type themeResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type searchResponse struct {
	Results []Set `json:"results"`
}

// Client talks to the set catalog API with centralized auth and error mapping.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the catalog credentials and builds a client.
func NewClient(cfg config.RebrickableConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "rebrickable api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "rebrickable base url is required")
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logg,
	}, nil
}

// GetSet fetches the catalog record for an exact set number.
// A provider 404 maps to CodeNotFound so callers can fall through to the next
// candidate form; any other non-2xx status maps to CodeRemote.
func (c *Client) GetSet(ctx context.Context, setNum string) (*Set, error) {
	endpoint := fmt.Sprintf("%s/sets/%s/", c.baseURL, url.PathEscape(setNum))

	var set Set
	if err := c.getJSON(ctx, endpoint, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// GetThemeName resolves a theme id to its display name.
func (c *Client) GetThemeName(ctx context.Context, themeID int) (string, error) {
	endpoint := fmt.Sprintf("%s/themes/%d/", c.baseURL, themeID)

	var theme themeResponse
	if err := c.getJSON(ctx, endpoint, &theme); err != nil {
		return "", err
	}
	return theme.Name, nil
}

// SearchSets runs a free-text catalog search, newest sets first.
func (c *Client) SearchSets(ctx context.Context, query string) ([]Set, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("page_size", "20")
	q.Set("ordering", "-year")
	endpoint := fmt.Sprintf("%s/sets/?%s", c.baseURL, q.Encode())

	var payload searchResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building catalog request")
	}
	req.Header.Set("Authorization", "key "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, "catalog request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog entry not found")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return pkgerrors.New(pkgerrors.CodeRemote, fmt.Sprintf("catalog request failed (%d)", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, "decoding catalog response")
	}
	return nil
}
