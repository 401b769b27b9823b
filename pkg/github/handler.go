package github

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Status godoc
// @Summary GitHub API availability
// @Tags GitHub
// @Produce json
// @Success 200 {object} APIStatus
// @Router /api/integrations/github/status [get]
func (handler *Handler) Status(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, handler.service.Status(r.Context()))
}

// Popularity godoc
// @Summary GitHub popularity of a technology
// @Tags GitHub
// @Produce json
// @Param name query string true "Technology name"
// @Success 200 {object} Popularity
// @Failure 400 {object} rest.ErrorResponse
// @Failure 429 {object} rest.ErrorResponse
// @Failure 502 {object} rest.ErrorResponse
// @Failure 503 {object} rest.ErrorResponse
// @Router /api/integrations/github/popularity [get]
func (handler *Handler) Popularity(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	log.Debugf("Looking up GitHub popularity of %q", name)
	popularity, err := handler.service.Lookup(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName):
			rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, ErrRateLimited):
			rest.WriteError(w, http.StatusTooManyRequests, err.Error(), "")
		case errors.Is(err, ErrAPIUnavailable):
			rest.WriteError(w, http.StatusServiceUnavailable, ErrAPIUnavailable.Error(), err.Error())
		default:
			rest.WriteError(w, http.StatusBadGateway, "GitHub lookup failed", err.Error())
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, popularity)
}
