package item

import (
	"context"

	rawhttp "github.com/leg100/rawlink/internal/http"
)

const itemsPath = "api/v1/items"

// Client accesses items via the rawlink API.
type Client struct {
	*rawhttp.Client
}

func (c *Client) Create(ctx context.Context, content []byte) (*CreateResponse, error) {
	req, err := c.NewRequest("POST", itemsPath, content)
	if err != nil {
		return nil, err
	}
	var resp CreateResponse
	if err := c.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) List(ctx context.Context) ([]string, error) {
	req, err := c.NewRequest("GET", itemsPath, nil)
	if err != nil {
		return nil, err
	}
	var resp ListResponse
	if err := c.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
