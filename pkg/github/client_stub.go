package github

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu                    sync.RWMutex
	rateLimit             RateLimit
	repositories          map[string]RepositorySearch // name -> search result
	topics                map[string][]Topic          // name -> topics
	rateLimitErr          error
	searchRepositoriesErr error
	searchTopicsErr       error
	repositoryCalls       int
	// block, when set, holds repository searches until it is closed.
	block chan struct{}
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		rateLimit:    RateLimit{Limit: 60, Remaining: 59, Reset: 1710064800},
		repositories: make(map[string]RepositorySearch),
		topics:       make(map[string][]Topic),
	}
}

func (c *ClientStub) RateLimit(ctx context.Context) (RateLimit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rateLimitErr != nil {
		return RateLimit{}, c.rateLimitErr
	}
	return c.rateLimit, nil
}

func (c *ClientStub) SearchRepositories(ctx context.Context, name string, perPage int) (RepositorySearch, error) {
	c.mu.Lock()
	c.repositoryCalls++
	block := c.block
	c.mu.Unlock()

	if block != nil {
		<-block
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.searchRepositoriesErr != nil {
		return RepositorySearch{}, c.searchRepositoriesErr
	}
	result := c.repositories[name]
	if len(result.Items) > perPage {
		result.Items = result.Items[:perPage]
	}
	return result, nil
}

func (c *ClientStub) SearchTopics(ctx context.Context, name string, perPage int) ([]Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.searchTopicsErr != nil {
		return nil, c.searchTopicsErr
	}
	topics := c.topics[name]
	if len(topics) > perPage {
		topics = topics[:perPage]
	}
	return topics, nil
}

func (c *ClientStub) SetRepositories(name string, result RepositorySearch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repositories[name] = result
}

func (c *ClientStub) SetTopics(name string, topics []Topic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[name] = topics
}

func (c *ClientStub) RepositoryCalls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repositoryCalls
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rateLimit = RateLimit{Limit: 60, Remaining: 59, Reset: 1710064800}
	c.repositories = make(map[string]RepositorySearch)
	c.topics = make(map[string][]Topic)
	c.rateLimitErr = nil
	c.searchRepositoriesErr = nil
	c.searchTopicsErr = nil
	c.repositoryCalls = 0
	c.block = nil
}
