package activity

import (
	"net/http"
	"strconv"

	"github.com/techtrack/techtrack/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// List godoc
// @Summary Recent activity
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum number of entries"
// @Success 200 {array} Entry
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/activity [get]
func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitString := r.URL.Query().Get("limit"); limitString != "" {
		parsed, err := strconv.Atoi(limitString)
		if err != nil || parsed < 0 {
			rest.WriteError(w, http.StatusBadRequest, "invalid limit", limitString)
			return
		}
		limit = parsed
	}
	entries, err := handler.service.Recent(r.Context(), limit)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not read activity", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, entries)
}
