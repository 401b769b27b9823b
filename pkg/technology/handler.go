package technology

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/rest"
	"github.com/techtrack/techtrack/pkg/studyplan"
)

const exportFileName = "technologies-backup.json"

// maxImportSize caps the accepted backup size.
const maxImportSize = 10 << 20

type TechnologyDTO struct {
	Id            int64         `json:"id"`
	Title         string        `json:"title" validate:"required,max=200"`
	Description   string        `json:"description" validate:"required"`
	Status        string        `json:"status" validate:"omitempty,oneof=not-started in-progress completed"`
	Notes         string        `json:"notes"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
	StudyTimeline *StudyPlanDTO `json:"studyTimeline"`
	HasStudyPlan  bool          `json:"hasStudyPlan"`
}

type StudyPlanDTO struct {
	StartDate    studyplan.Date   `json:"startDate"`
	EndDate      studyplan.Date   `json:"endDate"`
	HoursPerWeek int              `json:"hoursPerWeek"`
	Milestones   []MilestoneDTO   `json:"milestones" validate:"dive"`
	Priority     string           `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Stats        *studyplan.Stats `json:"stats,omitempty"`
	CreatedAt    *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time       `json:"updatedAt,omitempty"`
}

type MilestoneDTO struct {
	Title     string         `json:"title" validate:"max=200"`
	Date      studyplan.Date `json:"date"`
	Completed bool           `json:"completed"`
}

type StatusDTO struct {
	Status string `json:"status" validate:"required,oneof=not-started in-progress completed"`
}

type BulkStatusDTO struct {
	Ids    []int64 `json:"ids" validate:"required,min=1"`
	Status string  `json:"status" validate:"required,oneof=not-started in-progress completed"`
}

// ValidationResultDTO is the outcome of a study plan dry run. Errors carries
// every field key, with an empty string for fields that passed.
type ValidationResultDTO struct {
	Valid  bool             `json:"valid"`
	Errors studyplan.Errors `json:"errors"`
	Stats  studyplan.Stats  `json:"stats"`
}

type ImportResultDTO struct {
	Imported int `json:"imported"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// List godoc
// @Summary List technologies
// @Description Get technologies, optionally narrowed by status and a search phrase
// @Tags Technology
// @Produce json
// @Param status query string false "not-started, in-progress, completed or all"
// @Param q query string false "Search phrase"
// @Success 200 {array} TechnologyDTO
// @Router /api/technology [get]
func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing technologies")
	filter := Filter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}
	technologies, err := handler.service.List(r.Context(), filter)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not list technologies", err.Error())
		return
	}
	dtos := make([]TechnologyDTO, 0, len(technologies))
	for _, tech := range technologies {
		dtos = append(dtos, TechnologyToDTO(tech))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a technology
// @Tags Technology
// @Produce json
// @Param techId path int true "Technology ID"
// @Success 200 {object} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technology/{techId} [get]
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	techId, ok := technologyId(w, r)
	if !ok {
		return
	}
	tech, err := handler.service.Get(r.Context(), techId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TechnologyToDTO(tech))
}

// Create godoc
// @Summary Create a technology
// @Description Status defaults to not-started
// @Tags Technology
// @Accept json
// @Produce json
// @Param technology body TechnologyDTO true "Technology"
// @Success 201 {object} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/technology [post]
func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating technology")
	var dto TechnologyDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	created, err := handler.service.Create(r.Context(), DTOToTechnology(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, TechnologyToDTO(created))
}

// Update godoc
// @Summary Update a technology
// @Description Replaces title, description and notes. The status is replaced only when given. The study plan is left untouched.
// @Tags Technology
// @Accept json
// @Produce json
// @Param techId path int true "Technology ID"
// @Param technology body TechnologyDTO true "Technology"
// @Success 200 {object} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technology/{techId} [put]
func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	techId, ok := technologyId(w, r)
	if !ok {
		return
	}
	var dto TechnologyDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if dto.Id != 0 && dto.Id != techId {
		rest.WriteError(w, http.StatusBadRequest, "invalid technology id in request body", "")
		return
	}
	tech := DTOToTechnology(dto)
	tech.Id = techId
	updated, err := handler.service.Update(r.Context(), tech)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TechnologyToDTO(updated))
}

// UpdateStatus godoc
// @Summary Change the status of a technology
// @Tags Technology
// @Accept json
// @Produce json
// @Param techId path int true "Technology ID"
// @Param status body StatusDTO true "New status"
// @Success 200 {object} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technology/{techId}/status [patch]
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	techId, ok := technologyId(w, r)
	if !ok {
		return
	}
	var dto StatusDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	updated, err := handler.service.UpdateStatus(r.Context(), techId, Status(dto.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TechnologyToDTO(updated))
}

// BulkUpdateStatus godoc
// @Summary Change the status of several technologies
// @Description Nothing is changed when any of the ids is unknown
// @Tags Technology
// @Accept json
// @Produce json
// @Param request body BulkStatusDTO true "Ids and the new status"
// @Success 200 {array} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technology/status [put]
func (handler *Handler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var dto BulkStatusDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	updated, err := handler.service.BulkUpdateStatus(r.Context(), dto.Ids, Status(dto.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]TechnologyDTO, 0, len(updated))
	for _, tech := range updated {
		dtos = append(dtos, TechnologyToDTO(tech))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Delete godoc
// @Summary Delete a technology
// @Tags Technology
// @Param techId path int true "Technology ID"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technology/{techId} [delete]
func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	techId, ok := technologyId(w, r)
	if !ok {
		return
	}
	if err := handler.service.Delete(r.Context(), techId); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveStudyPlan godoc
// @Summary Save the study plan of a technology
// @Description The plan is validated first. On failure nothing is stored and the per-field messages are returned.
// @Tags StudyPlan
// @Accept json
// @Produce json
// @Param techId path int true "Technology ID"
// @Param plan body StudyPlanDTO true "Study plan"
// @Success 200 {object} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Failure 422 {object} ValidationResultDTO
// @Router /api/technology/{techId}/timeline [put]
func (handler *Handler) SaveStudyPlan(w http.ResponseWriter, r *http.Request) {
	techId, ok := technologyId(w, r)
	if !ok {
		return
	}
	var dto StudyPlanDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	updated, err := handler.service.SaveStudyPlan(r.Context(), techId, DTOToStudyPlan(dto))
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			plan := DTOToStudyPlan(dto)
			rest.WriteJSON(w, http.StatusUnprocessableEntity, ValidationResultDTO{
				Valid:  false,
				Errors: validationErr.Errors,
				Stats:  studyplan.ComputeStats(plan.StartDate, plan.EndDate, plan.HoursPerWeek),
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TechnologyToDTO(updated))
}

// RemoveStudyPlan godoc
// @Summary Remove the study plan of a technology
// @Tags StudyPlan
// @Produce json
// @Param techId path int true "Technology ID"
// @Success 200 {object} TechnologyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technology/{techId}/timeline [delete]
func (handler *Handler) RemoveStudyPlan(w http.ResponseWriter, r *http.Request) {
	techId, ok := technologyId(w, r)
	if !ok {
		return
	}
	updated, err := handler.service.RemoveStudyPlan(r.Context(), techId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TechnologyToDTO(updated))
}

// ValidateStudyPlan godoc
// @Summary Validate a study plan without saving it
// @Description Returns the message for every field (empty when the field passed) and the derived statistics
// @Tags StudyPlan
// @Accept json
// @Produce json
// @Param plan body StudyPlanDTO true "Study plan"
// @Success 200 {object} ValidationResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/timeline/validate [post]
func (handler *Handler) ValidateStudyPlan(w http.ResponseWriter, r *http.Request) {
	var dto StudyPlanDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	plan := DTOToStudyPlan(dto)
	errs := handler.service.ValidateStudyPlan(plan)
	rest.WriteJSON(w, http.StatusOK, ValidationResultDTO{
		Valid:  errs.Valid(),
		Errors: errs,
		Stats:  studyplan.ComputeStats(plan.StartDate, plan.EndDate, plan.HoursPerWeek),
	})
}

// Export godoc
// @Summary Download all technologies as a JSON backup
// @Tags Data
// @Produce json
// @Success 200 {array} TechnologyDTO
// @Router /api/data/export [get]
func (handler *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting technologies")
	data, err := handler.service.Export(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not export technologies", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportFileName)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Errorf("failed to write export: %v", err)
	}
}

// Import godoc
// @Summary Replace all technologies with a JSON backup
// @Tags Data
// @Accept json
// @Produce json
// @Success 200 {object} ImportResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/data/import [post]
func (handler *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing technologies")
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "could not read request body", err.Error())
		return
	}
	count, err := handler.service.Import(r.Context(), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ImportResultDTO{Imported: count})
}

// Clear godoc
// @Summary Remove all technologies
// @Tags Data
// @Success 204 "No Content"
// @Router /api/data [delete]
func (handler *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.Clear(r.Context()); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not clear data", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func technologyId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	techId, err := strconv.ParseInt(mux.Vars(r)["techId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid technology id", err.Error())
		return 0, false
	}
	return techId, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTechnologyNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrNothingSelected), errors.Is(err, ErrInvalidImport):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	default:
		log.Errorf("technology request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func TechnologyToDTO(tech Technology) TechnologyDTO {
	dto := TechnologyDTO{
		Id:           tech.Id,
		Title:        tech.Title,
		Description:  tech.Description,
		Status:       string(tech.Status),
		Notes:        tech.Notes,
		UpdatedAt:    tech.UpdatedAt,
		HasStudyPlan: tech.HasStudyPlan,
	}
	if !tech.CreatedAt.IsZero() {
		createdAt := tech.CreatedAt
		dto.CreatedAt = &createdAt
	}
	if tech.StudyTimeline != nil {
		plan := StudyPlanToDTO(*tech.StudyTimeline)
		dto.StudyTimeline = &plan
	}
	return dto
}

func DTOToTechnology(dto TechnologyDTO) Technology {
	return Technology{
		Id:          dto.Id,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      Status(dto.Status),
		Notes:       dto.Notes,
	}
}

func StudyPlanToDTO(plan studyplan.StudyPlan) StudyPlanDTO {
	milestones := make([]MilestoneDTO, 0, len(plan.Milestones))
	for _, m := range plan.Milestones {
		milestones = append(milestones, MilestoneDTO{Title: m.Title, Date: m.Date, Completed: m.Completed})
	}
	stats := plan.Stats
	return StudyPlanDTO{
		StartDate:    plan.StartDate,
		EndDate:      plan.EndDate,
		HoursPerWeek: plan.HoursPerWeek,
		Milestones:   milestones,
		Priority:     string(plan.Priority),
		Stats:        &stats,
		CreatedAt:    plan.CreatedAt,
		UpdatedAt:    plan.UpdatedAt,
	}
}

func DTOToStudyPlan(dto StudyPlanDTO) studyplan.StudyPlan {
	milestones := make([]studyplan.Milestone, 0, len(dto.Milestones))
	for _, m := range dto.Milestones {
		milestones = append(milestones, studyplan.Milestone{Title: m.Title, Date: m.Date, Completed: m.Completed})
	}
	return studyplan.StudyPlan{
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
		HoursPerWeek: dto.HoursPerWeek,
		Milestones:   milestones,
		Priority:     studyplan.Priority(dto.Priority),
	}
}
