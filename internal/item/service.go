package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/logr"
)

// maxCreateAttempts is the number of times an ID is regenerated upon
// colliding with an existing item.
const maxCreateAttempts = 5

type (
	Service struct {
		logr.Logger

		store Store
		api   *api
	}

	Options struct {
		logr.Logger
		Store

		// Sharer constructs issue URLs returned to uploaders.
		Sharer Sharer
		// MaxUploadSize is the maximum permitted content size in bytes.
		MaxUploadSize int64
	}
)

func NewService(opts Options) *Service {
	svc := Service{
		Logger: opts.Logger,
		store:  opts.Store,
	}
	svc.api = &api{
		Service:       &svc,
		Sharer:        opts.Sharer,
		maxUploadSize: opts.MaxUploadSize,
	}
	return &svc
}

func (s *Service) AddHandlers(r *mux.Router) {
	s.api.addHandlers(r)
}

// Create stores new content, generating a fresh ID and access token.
func (s *Service) Create(ctx context.Context, content []byte) (*Item, error) {
	if len(content) == 0 {
		return nil, internal.ErrEmptyUpload
	}
	for range maxCreateAttempts {
		item, err := New(content)
		if err != nil {
			return nil, err
		}
		err = s.store.Put(ctx, item)
		if errors.Is(err, internal.ErrResourceAlreadyExists) {
			s.V(1).Info("regenerating colliding item id", "id", item.ID)
			continue
		}
		if err != nil {
			s.Error(err, "creating item", "id", item.ID)
			return nil, err
		}
		s.V(1).Info("created item", "id", item.ID, "bytes", len(content))
		return item, nil
	}
	return nil, fmt.Errorf("creating item: %w", internal.ErrResourceAlreadyExists)
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, internal.ErrResourceNotFound) {
			s.Error(err, "retrieving item", "id", id)
		}
		return nil, err
	}
	s.V(9).Info("retrieved item", "id", id)
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		s.Error(err, "listing items")
		return nil, err
	}
	s.V(9).Info("listed items", "count", len(ids))
	return ids, nil
}
