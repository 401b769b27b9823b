package technology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/pkg/kvstore"
)

// StorageKey is the key holding the JSON array of all technologies.
const StorageKey = "technologies"

// Repository loads and stores the complete technology list.
type Repository interface {
	FindAll(ctx context.Context) ([]Technology, error)
	ReplaceAll(ctx context.Context, technologies []Technology) error
	Clear(ctx context.Context) error
}

type RepositoryImpl struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *RepositoryImpl {
	return &RepositoryImpl{store: store}
}

func (r *RepositoryImpl) FindAll(ctx context.Context) ([]Technology, error) {
	data, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []Technology{}, nil
		}
		return nil, err
	}

	var technologies []Technology
	if err := json.Unmarshal(data, &technologies); err != nil {
		err := fmt.Errorf("stored technologies are malformed: %w", err)
		log.Error(err)
		return nil, err
	}
	if technologies == nil {
		technologies = []Technology{}
	}
	return technologies, nil
}

func (r *RepositoryImpl) ReplaceAll(ctx context.Context, technologies []Technology) error {
	if technologies == nil {
		technologies = []Technology{}
	}
	data, err := json.Marshal(technologies)
	if err != nil {
		return fmt.Errorf("could not encode technologies: %w", err)
	}
	return r.store.Set(ctx, StorageKey, data)
}

func (r *RepositoryImpl) Clear(ctx context.Context) error {
	return r.store.Remove(ctx, StorageKey)
}
