package activity

import (
	"context"
	"fmt"
	"sync"

	"github.com/techtrack/techtrack/internal/event_bus"
)

type Service interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// ServiceImpl records technology events as activity entries, newest first.
type ServiceImpl struct {
	mu   sync.Mutex
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// Subscribe registers the recorder for every technology and data event.
func (s *ServiceImpl) Subscribe(eventBus *event_bus.EventBus) {
	event_bus.SubscribeTyped(eventBus, event_bus.TechnologyCreated, func(e event_bus.EventT[event_bus.TechnologyChanged]) error {
		return s.record(e.Context(), Entry{
			Type:         string(e.Type),
			TechnologyId: e.Data.TechnologyId,
			Summary:      fmt.Sprintf("Added %q", e.Data.Title),
			At:           e.Timestamp,
		})
	})
	event_bus.SubscribeTyped(eventBus, event_bus.TechnologyDeleted, func(e event_bus.EventT[event_bus.TechnologyChanged]) error {
		return s.record(e.Context(), Entry{
			Type:         string(e.Type),
			TechnologyId: e.Data.TechnologyId,
			Summary:      fmt.Sprintf("Deleted %q", e.Data.Title),
			At:           e.Timestamp,
		})
	})
	event_bus.SubscribeTyped(eventBus, event_bus.TechnologyStatusChanged, func(e event_bus.EventT[event_bus.StatusChanged]) error {
		return s.record(e.Context(), Entry{
			Type:         string(e.Type),
			TechnologyId: e.Data.TechnologyId,
			Summary:      fmt.Sprintf("%q moved from %s to %s", e.Data.Title, e.Data.OldStatus, e.Data.NewStatus),
			At:           e.Timestamp,
		})
	})
	event_bus.SubscribeTyped(eventBus, event_bus.StudyPlanSaved, func(e event_bus.EventT[event_bus.StudyPlanChanged]) error {
		return s.record(e.Context(), Entry{
			Type:         string(e.Type),
			TechnologyId: e.Data.TechnologyId,
			Summary:      fmt.Sprintf("Planned %d hours for %q", e.Data.TotalHours, e.Data.Title),
			At:           e.Timestamp,
		})
	})
	event_bus.SubscribeTyped(eventBus, event_bus.StudyPlanRemoved, func(e event_bus.EventT[event_bus.StudyPlanChanged]) error {
		return s.record(e.Context(), Entry{
			Type:         string(e.Type),
			TechnologyId: e.Data.TechnologyId,
			Summary:      fmt.Sprintf("Removed the study plan of %q", e.Data.Title),
			At:           e.Timestamp,
		})
	})
	event_bus.SubscribeTyped(eventBus, event_bus.DataImported, func(e event_bus.EventT[event_bus.DataReplaced]) error {
		return s.record(e.Context(), Entry{
			Type:    string(e.Type),
			Summary: fmt.Sprintf("Imported %d technologies", e.Data.Count),
			At:      e.Timestamp,
		})
	})
	event_bus.SubscribeTyped(eventBus, event_bus.DataCleared, func(e event_bus.EventT[event_bus.DataReplaced]) error {
		return s.record(e.Context(), Entry{
			Type:    string(e.Type),
			Summary: "Removed all technologies",
			At:      e.Timestamp,
		})
	})
}

// Recent returns at most limit entries, newest first. A non-positive limit
// returns the whole log.
func (s *ServiceImpl) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *ServiceImpl) record(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	entries = append([]Entry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return s.repo.ReplaceAll(ctx, entries)
}
