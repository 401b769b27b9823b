package technology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techtrack/techtrack/internal/event_bus"
	"github.com/techtrack/techtrack/internal/utils"
	"github.com/techtrack/techtrack/pkg/kvstore"
	"github.com/techtrack/techtrack/pkg/studyplan"
)

func setupHandlerTest(t *testing.T) *mux.Router {
	store := kvstore.NewMemoryStore()
	svc := NewService(NewRepository(store), event_bus.NewEventBus(), utils.NewMockClock(now))
	handler := NewHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/api/technology", handler.List).Methods("GET")
	router.HandleFunc("/api/technology", handler.Create).Methods("POST")
	router.HandleFunc("/api/technology/status", handler.BulkUpdateStatus).Methods("PUT")
	router.HandleFunc("/api/technology/{techId}", handler.Get).Methods("GET")
	router.HandleFunc("/api/technology/{techId}", handler.Update).Methods("PUT")
	router.HandleFunc("/api/technology/{techId}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/api/technology/{techId}/status", handler.UpdateStatus).Methods("PATCH")
	router.HandleFunc("/api/technology/{techId}/timeline", handler.SaveStudyPlan).Methods("PUT")
	router.HandleFunc("/api/technology/{techId}/timeline", handler.RemoveStudyPlan).Methods("DELETE")
	router.HandleFunc("/api/timeline/validate", handler.ValidateStudyPlan).Methods("POST")
	router.HandleFunc("/api/data/export", handler.Export).Methods("GET")
	router.HandleFunc("/api/data/import", handler.Import).Methods("POST")
	router.HandleFunc("/api/data", handler.Clear).Methods("DELETE")
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createViaHandler(t *testing.T, router http.Handler, title string) TechnologyDTO {
	t.Helper()
	body := fmt.Sprintf(`{"title": %q, "description": "about %s"}`, title, title)
	w := doRequest(t, router, http.MethodPost, "/api/technology", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var dto TechnologyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	return dto
}

func TestHandler_Create(t *testing.T) {
	t.Run("should create technology", func(t *testing.T) {
		router := setupHandlerTest(t)

		// when
		dto := createViaHandler(t, router, "Go")

		// then
		assert.Equal(t, "Go", dto.Title)
		assert.Equal(t, "not-started", dto.Status)
		assert.NotZero(t, dto.Id)
		assert.Nil(t, dto.StudyTimeline)
	})

	t.Run("should reject missing title", func(t *testing.T) {
		router := setupHandlerTest(t)

		// when
		w := doRequest(t, router, http.MethodPost, "/api/technology", `{"description": "no title"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Title failed on 'required'")
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		router := setupHandlerTest(t)

		// when
		w := doRequest(t, router, http.MethodPost, "/api/technology", `{"title": "Go", "description": "d", "status": "paused"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	router := setupHandlerTest(t)

	// given
	goTech := createViaHandler(t, router, "Go")
	createViaHandler(t, router, "Rust")
	w := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/technology/%d/status", goTech.Id), `{"status": "completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// when
	w = doRequest(t, router, http.MethodGet, "/api/technology?status=completed", "")

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var dtos []TechnologyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "Go", dtos[0].Title)
}

func TestHandler_Get(t *testing.T) {
	t.Run("should return 404 for unknown technology", func(t *testing.T) {
		router := setupHandlerTest(t)

		// when
		w := doRequest(t, router, http.MethodGet, "/api/technology/42", "")

		// then
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should return 400 for malformed id", func(t *testing.T) {
		router := setupHandlerTest(t)

		// when
		w := doRequest(t, router, http.MethodGet, "/api/technology/abc", "")

		// then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Update(t *testing.T) {
	router := setupHandlerTest(t)

	// given
	tech := createViaHandler(t, router, "Go")
	w := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/technology/%d/status", tech.Id), `{"status": "completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// when
	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/technology/%d", tech.Id), `{"title": "Golang", "description": "renamed"}`)

	// then
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dto TechnologyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "Golang", dto.Title)
	assert.Equal(t, "completed", dto.Status)
}

func TestHandler_BulkUpdateStatus(t *testing.T) {
	t.Run("should update selected technologies", func(t *testing.T) {
		router := setupHandlerTest(t)

		// given
		first := createViaHandler(t, router, "Go")
		createViaHandler(t, router, "Rust")
		body := fmt.Sprintf(`{"ids": [%d], "status": "in-progress"}`, first.Id)

		// when
		w := doRequest(t, router, http.MethodPut, "/api/technology/status", body)

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		var dtos []TechnologyDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		require.Len(t, dtos, 1)
		assert.Equal(t, "in-progress", dtos[0].Status)
	})

	t.Run("should reject empty selection", func(t *testing.T) {
		router := setupHandlerTest(t)

		// when
		w := doRequest(t, router, http.MethodPut, "/api/technology/status", `{"ids": [], "status": "completed"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_SaveStudyPlan(t *testing.T) {
	t.Run("should save a valid plan", func(t *testing.T) {
		router := setupHandlerTest(t)

		// given
		tech := createViaHandler(t, router, "Go")
		body := `{"startDate": "2024-03-11", "endDate": "2024-03-18", "hoursPerWeek": 10,
			"milestones": [{"title": "Basics", "date": "2024-03-15", "completed": false}]}`

		// when
		w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/technology/%d/timeline", tech.Id), body)

		// then
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dto TechnologyDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.True(t, dto.HasStudyPlan)
		require.NotNil(t, dto.StudyTimeline)
		require.NotNil(t, dto.StudyTimeline.Stats)
		assert.Equal(t, studyplan.Stats{TotalDays: 7, TotalWeeks: 1, TotalHours: 10}, *dto.StudyTimeline.Stats)
		assert.Equal(t, "low", dto.StudyTimeline.Priority)
	})

	t.Run("should return field errors for invalid plan", func(t *testing.T) {
		router := setupHandlerTest(t)

		// given
		tech := createViaHandler(t, router, "Go")
		body := `{"startDate": "2024-03-11", "endDate": "2024-03-18", "hoursPerWeek": 10,
			"milestones": [{"title": "Late", "date": "2024-04-01"}]}`

		// when
		w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/technology/%d/timeline", tech.Id), body)

		// then
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var result ValidationResultDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.Valid)
		assert.Equal(t, studyplan.MsgMilestoneTooLate, result.Errors["milestone_0"])
		assert.Equal(t, "", result.Errors["startDate"])

		w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/technology/%d", tech.Id), "")
		var stored TechnologyDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
		assert.False(t, stored.HasStudyPlan)
	})

	t.Run("should reject malformed date", func(t *testing.T) {
		router := setupHandlerTest(t)

		// given
		tech := createViaHandler(t, router, "Go")

		// when
		w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/technology/%d/timeline", tech.Id), `{"startDate": "11.03.2024"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid date")
	})

	t.Run("should remove the plan", func(t *testing.T) {
		router := setupHandlerTest(t)

		// given
		tech := createViaHandler(t, router, "Go")
		body := `{"startDate": "2024-03-11", "endDate": "2024-03-18", "hoursPerWeek": 10}`
		w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/technology/%d/timeline", tech.Id), body)
		require.Equal(t, http.StatusOK, w.Code)

		// when
		w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/technology/%d/timeline", tech.Id), "")

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		var dto TechnologyDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.False(t, dto.HasStudyPlan)
		assert.Nil(t, dto.StudyTimeline)
	})
}

func TestHandler_ValidateStudyPlan(t *testing.T) {
	router := setupHandlerTest(t)

	// when
	w := doRequest(t, router, http.MethodPost, "/api/timeline/validate", `{"startDate": "2024-03-11", "endDate": "2024-03-11"}`)

	// then
	require.Equal(t, http.StatusOK, w.Code)
	var result ValidationResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.Equal(t, studyplan.Errors{
		"startDate": "",
		"endDate":   studyplan.MsgEndNotAfterStart,
	}, result.Errors)
	assert.Equal(t, studyplan.Stats{}, result.Stats)
}

func TestHandler_ExportImportClear(t *testing.T) {
	router := setupHandlerTest(t)

	// given
	createViaHandler(t, router, "Go")
	createViaHandler(t, router, "Rust")

	// when
	exported := doRequest(t, router, http.MethodGet, "/api/data/export", "")

	// then
	require.Equal(t, http.StatusOK, exported.Code)
	assert.Equal(t, "attachment; filename=technologies-backup.json", exported.Header().Get("Content-Disposition"))

	// when
	cleared := doRequest(t, router, http.MethodDelete, "/api/data", "")

	// then
	assert.Equal(t, http.StatusNoContent, cleared.Code)
	w := doRequest(t, router, http.MethodGet, "/api/technology", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	// when
	imported := doRequest(t, router, http.MethodPost, "/api/data/import", exported.Body.String())

	// then
	require.Equal(t, http.StatusOK, imported.Code)
	assert.JSONEq(t, `{"imported": 2}`, imported.Body.String())

	// when
	invalid := doRequest(t, router, http.MethodPost, "/api/data/import", "not json")

	// then
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
	assert.True(t, strings.Contains(invalid.Body.String(), ErrInvalidImport.Error()))
}
