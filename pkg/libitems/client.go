package libitems

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on an items server.
	Client interface {
		// BearerToken returns the token used for requests sent to the items server.
		BearerToken() string
		// SetBearerToken sets the token used for requests sent to the items server.
		SetBearerToken(token string)
		// Version returns the version of the items server.
		Version(ctx context.Context) (string, error)
		// List returns all the items, newest first.
		List(ctx context.Context) ([]*Item, error)
		// Get returns the item for the given id.
		Get(ctx context.Context, id string) (*Item, error)
		// Add creates a new item and returns it as stored.
		Add(ctx context.Context, item NewItem) (*Item, error)
		// Patch updates the non-nil fields of an item and returns it as stored.
		Patch(ctx context.Context, id string, patch ItemPatch) (*Item, error)
		// Delete removes the item for the given id.
		// Removing an unknown item is not an error.
		Delete(ctx context.Context, id string) error
		// Listen streams the ordered collection until the returned Subscription is closed.
		// onSnapshot receives the full collection on connection and after each change.
		// onError receives any failure, after which the subscription is over.
		Listen(onSnapshot func([]*Item), onError func(error)) Subscription
	}

	client struct {
		http     *http.Client
		endpoint string
		bearer   string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
// The HTTP client must not have a global timeout, it would end live queries.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) BearerToken() string {
	return c.bearer
}

func (c *client) SetBearerToken(token string) {
	c.bearer = token
}

func (c *client) Version(ctx context.Context) (string, error) {
	var version struct {
		Version string `json:"version"`
	}
	err := c.do(ctx, http.MethodGet, "/version", nil, &version)
	return version.Version, err
}

func (c *client) List(ctx context.Context) ([]*Item, error) {
	var items struct {
		Items []*Item `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/items", nil, &items)
	return items.Items, err
}

func (c *client) Get(ctx context.Context, id string) (*Item, error) {
	var item struct {
		Item *Item `json:"item"`
	}
	err := c.do(ctx, http.MethodGet, path.Join("/items", url.PathEscape(id)), nil, &item)
	return item.Item, err
}

func (c *client) Add(ctx context.Context, newitem NewItem) (*Item, error) {
	var item struct {
		Item *Item `json:"item"`
	}
	err := c.do(ctx, http.MethodPost, "/items", &newitem, &item)
	return item.Item, err
}

func (c *client) Patch(ctx context.Context, id string, patch ItemPatch) (*Item, error) {
	var item struct {
		Item *Item `json:"item"`
	}
	err := c.do(ctx, http.MethodPatch, path.Join("/items", url.PathEscape(id)), &patch, &item)
	return item.Item, err
}

func (c *client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, path.Join("/items", url.PathEscape(id)), nil, nil)
}

func (c *client) url(p string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, p)
	return u.String(), nil
}

func (c *client) request(ctx context.Context, method, p string, body io.Reader) (*http.Request, error) {
	u, err := c.url(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.bearer))
	}
	return req, nil
}

// do performs a JSON request and decodes the response in v when not nil.
func (c *client) do(ctx context.Context, method, p string, params, v any) error {
	//
	// Build request
	var body io.Reader
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			return errors.Wrap(err, "could not serialize params")
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.request(ctx, method, p, body)
	if err != nil {
		return err
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res.Body, res.StatusCode)
	}

	if v == nil {
		return nil
	}

	//
	// Process response
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(v), "could not parse response")
}
