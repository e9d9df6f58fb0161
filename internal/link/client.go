package link

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"regexp"

	rawhttp "github.com/leg100/rawlink/internal/http"
)

// rawURLPattern matches a raw link embedded in the text of an invocation.
var rawURLPattern = regexp.MustCompile(`https?://[^\s"'<>]*` + RawPath + `[^\s"'<>]+`)

// ErrNoRawURL is returned when an invocation does not embed a raw link.
var ErrNoRawURL = errors.New("no raw link found in invocation")

// Client accesses links via the rawlink API.
type Client struct {
	*rawhttp.Client
}

// Share retrieves the issue URL for an item.
func (c *Client) Share(ctx context.Context, id string) (*ShareResponse, error) {
	req, err := c.NewRequest("GET", "api/v1/items/"+url.PathEscape(id)+"/share", nil)
	if err != nil {
		return nil, err
	}
	var resp ShareResponse
	if err := c.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Issue requests the issue URL and returns the invocation text, along with the
// raw link embedded within it.
func (c *Client) Issue(ctx context.Context, issueURL string) (string, string, error) {
	req, err := c.NewRequest("GET", issueURL, nil)
	if err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := c.Do(ctx, req, &buf); err != nil {
		return "", "", err
	}
	invocation := buf.String()
	rawURL := rawURLPattern.FindString(invocation)
	if rawURL == "" {
		return invocation, "", ErrNoRawURL
	}
	return invocation, rawURL, nil
}

// Fetch retrieves content from a raw link, presenting the client identity in
// the given header.
func (c *Client) Fetch(ctx context.Context, rawURL, header, identity string) ([]byte, error) {
	req, err := c.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	if identity != "" {
		req.Header.Set(header, identity)
	}
	var buf bytes.Buffer
	if err := c.Do(ctx, req, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
