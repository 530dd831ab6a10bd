// internal/common/api/pagination.go
package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Pagination is the backend's list-envelope paging block.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// ListEnvelope is the {data, pagination} shape every list endpoint returns.
// Data stays raw so each screen decodes its own element type.
type ListEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// GetPage fetches one page of a list endpoint.
func (c *Client) GetPage(ctx context.Context, path string, query url.Values, page int) (*ListEnvelope, error) {
	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var envelope ListEnvelope
	if err := c.GetJSON(ctx, path, q, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// FetchAll walks a list endpoint page by page until current_page reaches
// last_page, passing each raw data block to collect.
func (c *Client) FetchAll(ctx context.Context, path string, query url.Values, collect func(data json.RawMessage) error) error {
	page := 1
	for {
		envelope, err := c.GetPage(ctx, path, query, page)
		if err != nil {
			return err
		}

		if len(envelope.Data) > 0 {
			if err := collect(envelope.Data); err != nil {
				return err
			}
		}

		if envelope.Pagination.CurrentPage >= envelope.Pagination.LastPage {
			return nil
		}
		page = envelope.Pagination.CurrentPage + 1
	}
}
