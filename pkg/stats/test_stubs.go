package stats

import (
	"context"

	"github.com/techtrack/techtrack/pkg/technology"
)

type technologyReaderStub struct {
	technologies []technology.Technology
	err          error
}

func newTechnologyReaderStub() *technologyReaderStub {
	return &technologyReaderStub{}
}

func (s *technologyReaderStub) set(technologies []technology.Technology) {
	s.technologies = technologies
}

func (s *technologyReaderStub) List(ctx context.Context, filter technology.Filter) ([]technology.Technology, error) {
	if s.err != nil {
		return nil, s.err
	}
	return filter.Apply(s.technologies), nil
}

func (s *technologyReaderStub) reset() {
	s.technologies = nil
	s.err = nil
}
