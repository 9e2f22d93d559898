package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/dayglow/internal/models"
)

// ListOptions controls ordering and size of list and filter calls. Sort takes
// a field name, prefixed with "-" for descending order.
type ListOptions struct {
	Sort  string
	Limit int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// EntitySet is the CRUD surface for one backend record type.
type EntitySet[T any] struct {
	c    *Client
	name string
}

// Entities returns the record set for an entity name.
func Entities[T any](c *Client, name string) *EntitySet[T] {
	return &EntitySet[T]{c: c, name: name}
}

func (c *Client) CheckIns() *EntitySet[models.RemoteCheckIn] {
	return Entities[models.RemoteCheckIn](c, models.EntityCheckIn)
}

func (c *Client) JournalEntries() *EntitySet[models.JournalEntry] {
	return Entities[models.JournalEntry](c, models.EntityJournalEntry)
}

func (c *Client) PositiveEntries() *EntitySet[models.PositiveEntry] {
	return Entities[models.PositiveEntry](c, models.EntityPositiveEntry)
}

func (c *Client) Badges() *EntitySet[models.Badge] {
	return Entities[models.Badge](c, models.EntityBadge)
}

func (c *Client) UserBadges() *EntitySet[models.UserBadge] {
	return Entities[models.UserBadge](c, models.EntityUserBadge)
}

func (c *Client) Messages() *EntitySet[models.CommunityMessage] {
	return Entities[models.CommunityMessage](c, models.EntityCommunityMessage)
}

func (c *Client) CycleLogs() *EntitySet[models.CycleLog] {
	return Entities[models.CycleLog](c, models.EntityCycleLog)
}

func (c *Client) Users() *EntitySet[models.User] {
	return Entities[models.User](c, models.EntityUser)
}

func (s *EntitySet[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	var out []T
	err := s.c.do(ctx, http.MethodGet, s.c.appPath("entities", s.name), opts.query(), nil, &out)
	return out, err
}

// Filter lists records whose fields equal the given values.
func (s *EntitySet[T]) Filter(ctx context.Context, where map[string]any, opts ListOptions) ([]T, error) {
	q := opts.query()
	if len(where) > 0 {
		b, err := json.Marshal(where)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s filter: %w", s.name, err)
		}
		q.Set("q", string(b))
	}
	var out []T
	err := s.c.do(ctx, http.MethodGet, s.c.appPath("entities", s.name), q, nil, &out)
	return out, err
}

func (s *EntitySet[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := s.c.do(ctx, http.MethodGet, s.c.appPath("entities", s.name, id), nil, nil, &out)
	return out, err
}

func (s *EntitySet[T]) Create(ctx context.Context, record T) (T, error) {
	var out T
	err := s.c.do(ctx, http.MethodPost, s.c.appPath("entities", s.name), nil, record, &out)
	return out, err
}

func (s *EntitySet[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var out T
	err := s.c.do(ctx, http.MethodPut, s.c.appPath("entities", s.name, id), nil, patch, &out)
	return out, err
}

func (s *EntitySet[T]) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, s.c.appPath("entities", s.name, id), nil, nil, nil)
}
