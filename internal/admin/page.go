package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/model"
)

// decodePage accepts either a bare array or an object holding the items under
// key next to a pagination block.
func decodePage[T any](raw json.RawMessage, key string) (model.Page[T], error) {
	var page model.Page[T]
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return page, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return page, fmt.Errorf("decoding %s: %w", key, err)
		}
		page.Pagination = model.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: len(page.Items)}
		return page, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return page, fmt.Errorf("decoding %s: %w", key, err)
	}
	if items, ok := obj[key]; ok {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return page, fmt.Errorf("decoding %s: %w", key, err)
		}
	}
	if p, ok := obj["pagination"]; ok {
		if err := json.Unmarshal(p, &page.Pagination); err != nil {
			return page, fmt.Errorf("decoding pagination: %w", err)
		}
	}
	return page, nil
}

// listPage fetches path with the filters as query and decodes a page.
func listPage[T any](ctx context.Context, s *Service, path, key string, f listing.Filters) (model.Page[T], error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, path, f.Query(), &raw); err != nil {
		return model.Page[T]{}, err
	}
	return decodePage[T](raw, key)
}

// listAll fetches an unpaginated lookup collection.
func listAll[T any](ctx context.Context, s *Service, path, key string) ([]T, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	page, err := decodePage[T](raw, key)
	return page.Items, err
}
