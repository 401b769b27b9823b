package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techtrack/techtrack/internal/event_bus"
	"github.com/techtrack/techtrack/pkg/kvstore"
)

var ctx = context.Background()
var at = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*ServiceImpl, *event_bus.EventBus) {
	service := NewService(NewRepository(kvstore.NewMemoryStore()))
	eventBus := event_bus.NewEventBus()
	service.Subscribe(eventBus)
	return service, eventBus
}

func TestServiceImpl_Record(t *testing.T) {
	t.Run("should record events newest first", func(t *testing.T) {
		service, eventBus := setup(t)

		// given
		require.NoError(t, eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TechnologyCreated, at,
			event_bus.TechnologyChanged{TechnologyId: 1, Title: "Go"})))
		require.NoError(t, eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TechnologyStatusChanged, at.Add(time.Minute),
			event_bus.StatusChanged{TechnologyId: 1, Title: "Go", OldStatus: "not-started", NewStatus: "completed"})))

		// when
		entries, err := service.Recent(ctx, 0)

		// then
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "technology.status.changed", entries[0].Type)
		assert.Equal(t, `"Go" moved from not-started to completed`, entries[0].Summary)
		assert.Equal(t, at.Add(time.Minute), entries[0].At)
		assert.Equal(t, `Added "Go"`, entries[1].Summary)
	})

	t.Run("should keep only the most recent entries", func(t *testing.T) {
		service, eventBus := setup(t)

		// given
		for i := 0; i < MaxEntries+5; i++ {
			require.NoError(t, eventBus.Publish(event_bus.NewEvent(ctx, event_bus.DataImported, at.Add(time.Duration(i)*time.Second),
				event_bus.DataReplaced{Count: i})))
		}

		// when
		entries, err := service.Recent(ctx, 0)

		// then
		require.NoError(t, err)
		require.Len(t, entries, MaxEntries)
		assert.Equal(t, "Imported 54 technologies", entries[0].Summary)
		assert.Equal(t, "Imported 5 technologies", entries[MaxEntries-1].Summary)
	})

	t.Run("should limit returned entries", func(t *testing.T) {
		service, eventBus := setup(t)

		// given
		require.NoError(t, eventBus.Publish(event_bus.NewEvent(ctx, event_bus.DataCleared, at, event_bus.DataReplaced{})))
		require.NoError(t, eventBus.Publish(event_bus.NewEvent(ctx, event_bus.DataCleared, at, event_bus.DataReplaced{})))

		// when
		entries, err := service.Recent(ctx, 1)

		// then
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("should return entries", func(t *testing.T) {
		service, eventBus := setup(t)
		handler := NewHandler(service)

		// given
		require.NoError(t, eventBus.Publish(event_bus.NewEvent(ctx, event_bus.StudyPlanSaved, at,
			event_bus.StudyPlanChanged{TechnologyId: 7, Title: "Go", TotalHours: 20})))
		req := httptest.NewRequest(http.MethodGet, "/api/activity?limit=10", nil)
		w := httptest.NewRecorder()

		// when
		handler.List(w, req)

		// then
		require.Equal(t, http.StatusOK, w.Code)
		var entries []Entry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, int64(7), entries[0].TechnologyId)
		assert.Equal(t, `Planned 20 hours for "Go"`, entries[0].Summary)
	})

	t.Run("should reject invalid limit", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service)
		req := httptest.NewRequest(http.MethodGet, "/api/activity?limit=many", nil)
		w := httptest.NewRecorder()

		// when
		handler.List(w, req)

		// then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
