package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Technology
	r.HandleFunc("/api/technology", deps.TechnologyHandler.List).Methods("GET")
	r.HandleFunc("/api/technology", deps.TechnologyHandler.Create).Methods("POST")
	r.HandleFunc("/api/technology/status", deps.TechnologyHandler.BulkUpdateStatus).Methods("PUT")
	r.HandleFunc("/api/technology/{techId}", deps.TechnologyHandler.Get).Methods("GET")
	r.HandleFunc("/api/technology/{techId}", deps.TechnologyHandler.Update).Methods("PUT")
	r.HandleFunc("/api/technology/{techId}", deps.TechnologyHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/technology/{techId}/status", deps.TechnologyHandler.UpdateStatus).Methods("PATCH")

	// Study plan
	r.HandleFunc("/api/technology/{techId}/timeline", deps.TechnologyHandler.SaveStudyPlan).Methods("PUT")
	r.HandleFunc("/api/technology/{techId}/timeline", deps.TechnologyHandler.RemoveStudyPlan).Methods("DELETE")
	r.HandleFunc("/api/timeline/validate", deps.TechnologyHandler.ValidateStudyPlan).Methods("POST")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Update).Methods("PUT")
	r.HandleFunc("/api/settings/theme/toggle", deps.SettingsHandler.ToggleTheme).Methods("POST")

	// Data management
	r.HandleFunc("/api/data/export", deps.TechnologyHandler.Export).Methods("GET")
	r.HandleFunc("/api/data/import", deps.TechnologyHandler.Import).Methods("POST")
	r.HandleFunc("/api/data", deps.TechnologyHandler.Clear).Methods("DELETE")

	// Activity
	r.HandleFunc("/api/activity", deps.ActivityHandler.List).Methods("GET")

	// GitHub integration
	r.HandleFunc("/api/integrations/github/status", deps.GitHubHandler.Status).Methods("GET")
	r.HandleFunc("/api/integrations/github/popularity", deps.GitHubHandler.Popularity).Methods("GET")
}
