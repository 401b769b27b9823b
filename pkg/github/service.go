package github

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	repositoriesPerPage = 5
	topRepositories     = 3
	topicsPerPage       = 3
	popularityCeiling   = 100000
)

var ErrEmptyName = errors.New("technology name is required")
var ErrAPIUnavailable = errors.New("GitHub API is temporarily unavailable")

type Service interface {
	Lookup(ctx context.Context, name string) (Popularity, error)
	Status(ctx context.Context) APIStatus
}

type ServiceImpl struct {
	client   Client
	cache    Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

func NewService(client Client, cache Cache, cacheTTL time.Duration) *ServiceImpl {
	return &ServiceImpl{client: client, cache: cache, cacheTTL: cacheTTL}
}

// Lookup gathers the GitHub popularity of a technology. Concurrent lookups of
// the same name share one set of upstream requests.
func (s *ServiceImpl) Lookup(ctx context.Context, name string) (Popularity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Popularity{}, ErrEmptyName
	}
	key := strings.ToLower(name)

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warnf("popularity cache read failed for %s: %v", key, err)
	} else if ok {
		log.Debugf("popularity cache hit for %s", key)
		return cached, nil
	}

	// The shared fetch outlives any single caller; the HTTP client timeout
	// still bounds it.
	shared := context.WithoutCancel(ctx)
	results := s.group.DoChan(key, func() (any, error) {
		popularity, err := s.fetch(shared, name)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(shared, key, popularity, s.cacheTTL); err != nil {
			log.Warnf("popularity cache write failed for %s: %v", key, err)
		}
		return popularity, nil
	})

	select {
	case <-ctx.Done():
		return Popularity{}, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return Popularity{}, result.Err
		}
		return result.Val.(Popularity), nil
	}
}

func (s *ServiceImpl) fetch(ctx context.Context, name string) (Popularity, error) {
	rateLimit, err := s.client.RateLimit(ctx)
	if err != nil {
		log.Warnf("GitHub API availability check failed: %v", err)
		return Popularity{}, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	log.Debugf("GitHub API: %d/%d requests remaining", rateLimit.Remaining, rateLimit.Limit)

	repositories, err := s.client.SearchRepositories(ctx, name, repositoriesPerPage)
	if err != nil {
		return Popularity{}, err
	}

	topics, err := s.client.SearchTopics(ctx, name, topicsPerPage)
	if err != nil {
		log.Warnf("topics lookup for %s failed: %v", name, err)
		topics = []Topic{}
	}

	top := repositories.Items
	if len(top) > topRepositories {
		top = top[:topRepositories]
	}
	if top == nil {
		top = []Repository{}
	}
	if topics == nil {
		topics = []Topic{}
	}

	return Popularity{
		Name:            name,
		RepositoryCount: repositories.TotalCount,
		TopRepositories: top,
		Topics:          topics,
		PopularityScore: PopularityScore(repositories.TotalCount),
		APIInfo:         rateLimit,
	}, nil
}

// Status probes the rate limit endpoint.
func (s *ServiceImpl) Status(ctx context.Context) APIStatus {
	rateLimit, err := s.client.RateLimit(ctx)
	if err != nil {
		log.Debugf("GitHub API unavailable: %v", err)
		return APIStatus{Available: false}
	}
	return APIStatus{Available: true, RateLimit: &rateLimit}
}

// PopularityScore maps a repository count onto 0..100.
func PopularityScore(repositoryCount int) int {
	if repositoryCount <= 0 {
		return 0
	}
	if repositoryCount > popularityCeiling {
		return 100
	}
	return min(int(math.Round(float64(repositoryCount)/popularityCeiling*100)), 100)
}

// FormatCount renders large counts with a one decimal k or M suffix.
func FormatCount(n int) string {
	switch {
	case n >= 1000000:
		return strconv.FormatFloat(float64(n)/1000000, 'f', 1, 64) + "M"
	case n >= 1000:
		return strconv.FormatFloat(float64(n)/1000, 'f', 1, 64) + "k"
	default:
		return strconv.Itoa(n)
	}
}
