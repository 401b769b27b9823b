package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/pkg/kvstore"
)

const StorageKey = "activity"

type Repository interface {
	FindAll(ctx context.Context) ([]Entry, error)
	ReplaceAll(ctx context.Context, entries []Entry) error
}

type RepositoryImpl struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *RepositoryImpl {
	return &RepositoryImpl{store: store}
}

func (r *RepositoryImpl) FindAll(ctx context.Context) ([]Entry, error) {
	data, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []Entry{}, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warnf("stored activity log is malformed, starting over: %v", err)
		return []Entry{}, nil
	}
	return entries, nil
}

func (r *RepositoryImpl) ReplaceAll(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("could not encode activity: %w", err)
	}
	return r.store.Set(ctx, StorageKey, data)
}
