package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/pkg/kvstore"
)

const (
	SettingsKey = "appSettings"
	// ThemeKey holds the bare theme name and overrides the theme inside SettingsKey.
	ThemeKey = "theme"
)

type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Store(ctx context.Context, settings Settings) error
}

type RepositoryImpl struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *RepositoryImpl {
	return &RepositoryImpl{store: store}
}

func (r *RepositoryImpl) Get(ctx context.Context) (Settings, error) {
	settings := Defaults()

	data, err := r.store.Get(ctx, SettingsKey)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &settings); err != nil {
			log.Warnf("stored settings are malformed, using defaults: %v", err)
			settings = Defaults()
		}
	case !errors.Is(err, kvstore.ErrKeyNotFound):
		return Settings{}, err
	}

	theme, err := r.store.Get(ctx, ThemeKey)
	switch {
	case err == nil:
		if Theme(theme).Valid() {
			settings.Theme = Theme(theme)
		}
	case !errors.Is(err, kvstore.ErrKeyNotFound):
		return Settings{}, err
	}

	return settings, nil
}

func (r *RepositoryImpl) Store(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}
	if err := r.store.Set(ctx, SettingsKey, data); err != nil {
		return err
	}
	return r.store.Set(ctx, ThemeKey, []byte(settings.Theme))
}
