package technology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/event_bus"
	"github.com/techtrack/techtrack/internal/utils"
	"github.com/techtrack/techtrack/pkg/studyplan"
)

var ErrTechnologyNotFound = errors.New("technology not found")
var ErrInvalidStatus = errors.New("invalid status")
var ErrNothingSelected = errors.New("select at least one technology")
var ErrInvalidImport = errors.New("invalid import file format")

// ValidationError is returned when a study plan fails validation. Errors holds
// the full field-keyed result of the validation engine.
type ValidationError struct {
	Errors studyplan.Errors
}

func (e *ValidationError) Error() string {
	failed := e.Errors.Failed()
	keys := make([]string, 0, len(failed))
	for key := range failed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, failed[key]))
	}
	return "study plan is invalid: " + strings.Join(parts, "; ")
}

type Service interface {
	List(ctx context.Context, filter Filter) ([]Technology, error)
	Get(ctx context.Context, id int64) (Technology, error)
	Create(ctx context.Context, tech Technology) (Technology, error)
	Update(ctx context.Context, tech Technology) (Technology, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (Technology, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, status Status) ([]Technology, error)
	Delete(ctx context.Context, id int64) error
	ValidateStudyPlan(plan studyplan.StudyPlan) studyplan.Errors
	SaveStudyPlan(ctx context.Context, id int64, plan studyplan.StudyPlan) (Technology, error)
	RemoveStudyPlan(ctx context.Context, id int64) (Technology, error)
	StatusCounts(ctx context.Context) (StatusCounts, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (int, error)
	Clear(ctx context.Context) error
}

type ServiceImpl struct {
	// mu serialises read-modify-write cycles over the single stored list.
	mu       sync.Mutex
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Technology, error) {
	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(technologies), nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int64) (Technology, error) {
	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return Technology{}, err
	}
	idx := findTechnology(id, technologies)
	if idx == -1 {
		return Technology{}, ErrTechnologyNotFound
	}
	return technologies[idx], nil
}

func (s *ServiceImpl) Create(ctx context.Context, tech Technology) (Technology, error) {
	if tech.Status == "" {
		tech.Status = StatusNotStarted
	}
	if !tech.Status.Valid() {
		return Technology{}, fmt.Errorf("%w: %s", ErrInvalidStatus, tech.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return Technology{}, err
	}

	now := s.clock.Now()
	tech.Id = nextId(now.UnixMilli(), technologies)
	tech.CreatedAt = now
	tech.UpdatedAt = nil
	tech.StudyTimeline = nil
	tech.HasStudyPlan = false

	technologies = append(technologies, tech)
	if err := s.repo.ReplaceAll(ctx, technologies); err != nil {
		return Technology{}, err
	}

	s.publish(ctx, event_bus.TechnologyCreated, event_bus.TechnologyChanged{TechnologyId: tech.Id, Title: tech.Title})
	return tech, nil
}

// Update replaces title, description and notes. An empty status keeps the
// stored one.
func (s *ServiceImpl) Update(ctx context.Context, tech Technology) (Technology, error) {
	if tech.Status != "" && !tech.Status.Valid() {
		return Technology{}, fmt.Errorf("%w: %s", ErrInvalidStatus, tech.Status)
	}
	var oldStatus Status
	updated, err := s.modify(ctx, tech.Id, func(existing *Technology) error {
		oldStatus = existing.Status
		existing.Title = tech.Title
		existing.Description = tech.Description
		if tech.Status != "" {
			existing.Status = tech.Status
		}
		existing.Notes = tech.Notes
		return nil
	})
	if err != nil {
		return Technology{}, err
	}
	if oldStatus != updated.Status {
		s.publishStatusChange(ctx, updated, oldStatus)
	}
	return updated, nil
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id int64, status Status) (Technology, error) {
	if !status.Valid() {
		return Technology{}, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	var oldStatus Status
	updated, err := s.modify(ctx, id, func(existing *Technology) error {
		oldStatus = existing.Status
		existing.Status = status
		return nil
	})
	if err != nil {
		return Technology{}, err
	}
	if oldStatus != status {
		s.publishStatusChange(ctx, updated, oldStatus)
	}
	return updated, nil
}

// BulkUpdateStatus sets status on every selected technology. Nothing is
// written unless all ids exist.
func (s *ServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status Status) ([]Technology, error) {
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	oldStatuses := make(map[int64]Status, len(ids))
	updated := make([]Technology, 0, len(ids))
	for _, id := range ids {
		idx := findTechnology(id, technologies)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %d", ErrTechnologyNotFound, id)
		}
		if _, seen := oldStatuses[id]; !seen {
			oldStatuses[id] = technologies[idx].Status
		}
		technologies[idx].Status = status
		technologies[idx].UpdatedAt = &now
		updated = append(updated, technologies[idx])
	}

	if err := s.repo.ReplaceAll(ctx, technologies); err != nil {
		return nil, err
	}

	for _, tech := range updated {
		if old, ok := oldStatuses[tech.Id]; ok && old != status {
			delete(oldStatuses, tech.Id)
			s.publishStatusChange(ctx, tech, old)
		}
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	idx := findTechnology(id, technologies)
	if idx == -1 {
		return ErrTechnologyNotFound
	}
	deleted := technologies[idx]
	technologies = append(technologies[:idx], technologies[idx+1:]...)
	if err := s.repo.ReplaceAll(ctx, technologies); err != nil {
		return err
	}

	s.publish(ctx, event_bus.TechnologyDeleted, event_bus.TechnologyChanged{TechnologyId: deleted.Id, Title: deleted.Title})
	return nil
}

// ValidateStudyPlan runs the validation engine against today's date.
func (s *ServiceImpl) ValidateStudyPlan(plan studyplan.StudyPlan) studyplan.Errors {
	return studyplan.Validate(plan, s.today())
}

// SaveStudyPlan validates the candidate plan and, when valid, replaces the
// technology's plan with it. Invalid plans are returned as *ValidationError.
func (s *ServiceImpl) SaveStudyPlan(ctx context.Context, id int64, plan studyplan.StudyPlan) (Technology, error) {
	errs := s.ValidateStudyPlan(plan)
	if !errs.Valid() {
		log.Debugf("study plan for technology %d rejected: %v", id, errs.Failed())
		return Technology{}, &ValidationError{Errors: errs}
	}

	now := s.clock.Now()
	saved := plan.WithMilestones(plan.Milestones)
	if len(saved.Milestones) == 0 {
		saved.Milestones = []studyplan.Milestone{{}}
	}
	if saved.Priority == "" {
		saved.Priority = studyplan.PriorityLow
	}
	saved.TechnologyId = id
	saved.Stats = studyplan.ComputeStats(saved.StartDate, saved.EndDate, saved.HoursPerWeek)
	saved.UpdatedAt = &now

	updated, err := s.modify(ctx, id, func(existing *Technology) error {
		saved.CreatedAt = &now
		if existing.StudyTimeline != nil && existing.StudyTimeline.CreatedAt != nil {
			saved.CreatedAt = existing.StudyTimeline.CreatedAt
		}
		existing.StudyTimeline = &saved
		existing.HasStudyPlan = true
		return nil
	})
	if err != nil {
		return Technology{}, err
	}

	s.publish(ctx, event_bus.StudyPlanSaved, event_bus.StudyPlanChanged{
		TechnologyId: updated.Id,
		Title:        updated.Title,
		TotalHours:   saved.Stats.TotalHours,
	})
	return updated, nil
}

func (s *ServiceImpl) RemoveStudyPlan(ctx context.Context, id int64) (Technology, error) {
	updated, err := s.modify(ctx, id, func(existing *Technology) error {
		existing.StudyTimeline = nil
		existing.HasStudyPlan = false
		return nil
	})
	if err != nil {
		return Technology{}, err
	}
	s.publish(ctx, event_bus.StudyPlanRemoved, event_bus.StudyPlanChanged{TechnologyId: updated.Id, Title: updated.Title})
	return updated, nil
}

func (s *ServiceImpl) StatusCounts(ctx context.Context) (StatusCounts, error) {
	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return StatusCounts{}, err
	}
	return CountStatuses(technologies), nil
}

// Export returns all technologies as indented JSON.
func (s *ServiceImpl) Export(ctx context.Context) ([]byte, error) {
	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(technologies, "", "  ")
}

// Import replaces every stored technology with the decoded contents of data.
func (s *ServiceImpl) Import(ctx context.Context, data []byte) (int, error) {
	var technologies []Technology
	if err := json.Unmarshal(data, &technologies); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, technologies); err != nil {
		return 0, err
	}
	log.Infof("imported %d technologies", len(technologies))
	s.publish(ctx, event_bus.DataImported, event_bus.DataReplaced{Count: len(technologies)})
	return len(technologies), nil
}

func (s *ServiceImpl) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	log.Info("all technologies removed")
	s.publish(ctx, event_bus.DataCleared, event_bus.DataReplaced{})
	return nil
}

// modify loads the list, applies change to the technology with id, stamps
// UpdatedAt and writes the list back.
func (s *ServiceImpl) modify(ctx context.Context, id int64, change func(*Technology) error) (Technology, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	technologies, err := s.repo.FindAll(ctx)
	if err != nil {
		return Technology{}, err
	}
	idx := findTechnology(id, technologies)
	if idx == -1 {
		return Technology{}, ErrTechnologyNotFound
	}

	tech := technologies[idx]
	if err := change(&tech); err != nil {
		return Technology{}, err
	}
	now := s.clock.Now()
	tech.UpdatedAt = &now
	technologies[idx] = tech

	if err := s.repo.ReplaceAll(ctx, technologies); err != nil {
		return Technology{}, err
	}
	return tech, nil
}

func (s *ServiceImpl) today() studyplan.Date {
	return studyplan.DateOf(s.clock.Now())
}

func (s *ServiceImpl) publishStatusChange(ctx context.Context, tech Technology, oldStatus Status) {
	s.publish(ctx, event_bus.TechnologyStatusChanged, event_bus.StatusChanged{
		TechnologyId: tech.Id,
		Title:        tech.Title,
		OldStatus:    string(oldStatus),
		NewStatus:    string(tech.Status),
	})
}

// publish notifies subscribers after the change has been stored. A failing
// subscriber does not undo the stored change.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, s.clock.Now(), data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}

// nextId derives an id from the creation instant, moving past existing ids.
func nextId(candidate int64, technologies []Technology) int64 {
	for _, tech := range technologies {
		if tech.Id >= candidate {
			candidate = tech.Id + 1
		}
	}
	return candidate
}

func findTechnology(id int64, technologies []Technology) int {
	for idx, tech := range technologies {
		if tech.Id == id {
			return idx
		}
	}
	return -1
}
