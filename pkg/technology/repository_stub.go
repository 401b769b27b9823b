package technology

import (
	"context"
	"sync"
)

// RepositoryStub keeps the list in memory. Setting Err makes every call fail.
type RepositoryStub struct {
	mu           sync.Mutex
	technologies []Technology
	Err          error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{technologies: []Technology{}}
}

func (s *RepositoryStub) FindAll(ctx context.Context) ([]Technology, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]Technology{}, s.technologies...), nil
}

func (s *RepositoryStub) ReplaceAll(ctx context.Context, technologies []Technology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.technologies = append([]Technology{}, technologies...)
	return nil
}

func (s *RepositoryStub) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.technologies = []Technology{}
	return nil
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.technologies = []Technology{}
	s.Err = nil
}
