package settings

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/rest"
)

type SettingsDTO struct {
	Theme         string `json:"theme" validate:"required,oneof=light dark auto"`
	Language      string `json:"language" validate:"required,oneof=ru en"`
	Notifications bool   `json:"notifications"`
	AutoSave      bool   `json:"autoSave"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Get godoc
// @Summary Get application settings
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings [get]
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting settings")
	settings, err := handler.service.Get(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not read settings", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(settings))
}

// Update godoc
// @Summary Replace application settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/settings [put]
func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating settings")
	var dto SettingsDTO
	if err := rest.DecodeAndValidate(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	settings, err := handler.service.Update(r.Context(), fromDTO(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "could not store settings", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(settings))
}

// ToggleTheme godoc
// @Summary Switch between the light and dark theme; auto switches to dark
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings/theme/toggle [post]
func (handler *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	settings, err := handler.service.ToggleTheme(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not toggle theme", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(settings))
}

func toDTO(settings Settings) SettingsDTO {
	return SettingsDTO{
		Theme:         string(settings.Theme),
		Language:      string(settings.Language),
		Notifications: settings.Notifications,
		AutoSave:      settings.AutoSave,
	}
}

func fromDTO(dto SettingsDTO) Settings {
	return Settings{
		Theme:         Theme(dto.Theme),
		Language:      Language(dto.Language),
		Notifications: dto.Notifications,
		AutoSave:      dto.AutoSave,
	}
}
