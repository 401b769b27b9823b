package github

import "time"

// RateLimit is the core quota reported by GET /rate_limit. Reset is a unix timestamp.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	URL         string    `json:"url"`
	Language    string    `json:"language"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RepositorySearch struct {
	TotalCount int
	Items      []Repository
}

type Topic struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Popularity summarises how widely a technology is used on GitHub.
type Popularity struct {
	Name            string       `json:"name"`
	RepositoryCount int          `json:"repositoryCount"`
	TopRepositories []Repository `json:"topRepositories"`
	Topics          []Topic      `json:"topics"`
	PopularityScore int          `json:"popularityScore"`
	APIInfo         RateLimit    `json:"apiInfo"`
}

type APIStatus struct {
	Available bool       `json:"available"`
	RateLimit *RateLimit `json:"rateLimit,omitempty"`
}
