package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Get fetches path and decodes it into a T. A 204 yields nil, nil.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	return call[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

// List fetches a JSON array. It never returns a nil slice on success.
func List[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	items, err := Get[[]T](ctx, c, path, query)
	if err != nil {
		return nil, err
	}
	if items == nil || *items == nil {
		return []T{}, nil
	}
	return *items, nil
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	return call[T](ctx, c, Request{Method: http.MethodPost, Path: path, Body: body})
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	return call[T](ctx, c, Request{Method: http.MethodPut, Path: path, Body: body})
}

func Delete(ctx context.Context, c *Client, path string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
	return err
}

// ItemPath returns "{collection}/{id}".
func ItemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}

func call[T any](ctx context.Context, c *Client, req Request) (*T, error) {
	var out T
	ok, err := c.Do(ctx, req, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}
