package settings

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidSettings = errors.New("invalid settings")

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, settings Settings) (Settings, error)
	ToggleTheme(ctx context.Context) (Settings, error)
}

type ServiceImpl struct {
	mu   sync.Mutex
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

func (s *ServiceImpl) Update(ctx context.Context, settings Settings) (Settings, error) {
	if !settings.Theme.Valid() || !settings.Language.Valid() {
		return Settings{}, ErrInvalidSettings
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Store(ctx, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *ServiceImpl) ToggleTheme(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	// auto resolves to an explicit theme; the system scheme is unknown here.
	if settings.Theme == ThemeDark {
		settings.Theme = ThemeLight
	} else {
		settings.Theme = ThemeDark
	}
	if err := s.repo.Store(ctx, settings); err != nil {
		return Settings{}, err
	}
	log.Debugf("theme switched to %s", settings.Theme)
	return settings, nil
}
