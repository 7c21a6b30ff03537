package bricklink

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
	"github.com/jsherman999/LegoEater/pkg/oauth1"
)

const defaultTimeout = 15 * time.Second

// Source identifies this provider in persisted snapshots.
const Source = "bricklink"

// Condition selects which sold-price guide to request.
type Condition string

const (
	ConditionNew  Condition = "N"
	ConditionUsed Condition = "U"
)

// Guide carries the sold-price statistics for one condition.
type Guide struct {
	UnitPrice        *float64 `json:"unit_price"`
	AvgPrice         *float64 `json:"avg_price"`
	MinPrice         *float64 `json:"min_price"`
	MaxPrice         *float64 `json:"max_price"`
	QuantityAvgPrice *float64 `json:"quantity_avg_price"`
	TotalQuantity    *int     `json:"total_quantity"`
}

type guideResponse struct {
	Meta *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"meta"`
	Data *Guide `json:"data"`
}

// Client issues signed requests against the price guide API.
type Client struct {
	baseURL string
	signer  *oauth1.Signer
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the OAuth credentials and builds a signed client.
// Missing credential material surfaces as a configuration error before any
// network call is made.
func NewClient(cfg config.BrickLinkConfig, logg *logger.Logger, opts ...oauth1.Option) (*Client, error) {
	signer, err := oauth1.NewSigner(oauth1.Credentials{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		TokenValue:     cfg.TokenValue,
		TokenSecret:    cfg.TokenSecret,
	}, opts...)
	if err != nil {
		return nil, err
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "price guide base url is required")
	}
	return &Client{
		baseURL: baseURL,
		signer:  signer,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logg,
	}, nil
}

// PriceGuide fetches the sold-price guide for a base set number and condition.
// A well-formed response without data returns (nil, nil): the provider has no
// sold listings for that condition, which is not an error.
func (c *Client) PriceGuide(ctx context.Context, baseSetNum string, condition Condition) (*Guide, error) {
	endpoint := fmt.Sprintf("%s/items/set/%s/price", c.baseURL, url.PathEscape(baseSetNum))

	query := url.Values{}
	query.Set("guide_type", "sold")
	query.Set("new_or_used", string(condition))
	query.Set("currency_code", "USD")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building price guide request")
	}
	req.Header.Set("Authorization", c.signer.AuthorizationHeader(http.MethodGet, endpoint, query))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "price guide request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeRemote, fmt.Sprintf("price guide request failed (%d)", resp.StatusCode))
	}

	var payload guideResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "decoding price guide response")
	}
	return payload.Data, nil
}
