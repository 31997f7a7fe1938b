// Package wiki talks to the prices.runescape.wiki real-time price API.
package wiki

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Item is one row of the /mapping item catalog.
type Item struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Examine string `json:"examine"`
	Members bool   `json:"members"`
	Limit   int64  `json:"limit"`
	Value   int64  `json:"value"`
	Icon    string `json:"icon"`
}

// Quote is the current high/low pair for one item from /latest. Either side
// may be missing when the item has not traded recently on that side.
type Quote struct {
	High     *int64 `json:"high"`
	HighTime *int64 `json:"highTime"`
	Low      *int64 `json:"low"`
	LowTime  *int64 `json:"lowTime"`
}

// Client fetches the item catalog and latest prices. The wiki API requires a
// descriptive User-Agent identifying the consumer.
type Client struct {
	http       *resty.Client
	mappingURL string
	latestURL  string
}

// NewClient creates a wiki API client with the given endpoints and timeout.
func NewClient(mappingURL, latestURL, userAgent string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", userAgent)
	c.SetHeader("Accept", "application/json")
	return &Client{
		http:       c,
		mappingURL: mappingURL,
		latestURL:  latestURL,
	}
}

// FetchMapping returns the full item catalog.
func (c *Client) FetchMapping() ([]Item, error) {
	var items []Item
	resp, err := c.http.R().SetResult(&items).Get(c.mappingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch mapping: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch mapping: %s", resp.Status())
	}
	return items, nil
}

// FetchLatest returns the current quote pair per item ID.
func (c *Client) FetchLatest() (map[int64]Quote, error) {
	var body struct {
		Data map[string]Quote `json:"data"`
	}
	resp, err := c.http.R().SetResult(&body).Get(c.latestURL)
	if err != nil {
		return nil, fmt.Errorf("fetch latest: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch latest: %s", resp.Status())
	}

	quotes := make(map[int64]Quote, len(body.Data))
	for idStr, q := range body.Data {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		quotes[id] = q
	}
	return quotes, nil
}
