package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github.v3+json"
)

var ErrRateLimited = errors.New("GitHub API rate limit reached, try again later")

type Client interface {
	RateLimit(ctx context.Context) (RateLimit, error)                                           // /rate_limit
	SearchRepositories(ctx context.Context, name string, perPage int) (RepositorySearch, error) // /search/repositories
	SearchTopics(ctx context.Context, name string, perPage int) ([]Topic, error)                // /search/topics
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a GitHub REST client. A non-empty token authenticates
// every request, which raises the rate limit.
func NewClient(baseURL string, token string, timeout time.Duration) *ClientImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = timeout
	}
	return &ClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// RateLimit retrieves the core quota of the caller
func (c *ClientImpl) RateLimit(ctx context.Context) (RateLimit, error) {
	var response struct {
		Resources struct {
			Core RateLimit `json:"core"`
		} `json:"resources"`
	}
	if err := c.get(ctx, "/rate_limit", "", &response); err != nil {
		return RateLimit{}, err
	}
	return response.Resources.Core, nil
}

// SearchRepositories finds the most starred repositories written in the given language
func (c *ClientImpl) SearchRepositories(ctx context.Context, name string, perPage int) (RepositorySearch, error) {
	escaped := url.QueryEscape(name)
	// "+" separates search qualifiers and must not be escaped.
	query := "q=" + escaped + "+language:" + escaped + "&sort=stars&order=desc&per_page=" + strconv.Itoa(perPage)

	var response struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			Name        string    `json:"name"`
			FullName    string    `json:"full_name"`
			Description string    `json:"description"`
			Stars       int       `json:"stargazers_count"`
			Forks       int       `json:"forks_count"`
			HTMLURL     string    `json:"html_url"`
			Language    string    `json:"language"`
			UpdatedAt   time.Time `json:"updated_at"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/search/repositories", query, &response); err != nil {
		return RepositorySearch{}, err
	}

	result := RepositorySearch{
		TotalCount: response.TotalCount,
		Items:      make([]Repository, 0, len(response.Items)),
	}
	for _, item := range response.Items {
		result.Items = append(result.Items, Repository{
			Name:        item.Name,
			FullName:    item.FullName,
			Description: item.Description,
			Stars:       item.Stars,
			Forks:       item.Forks,
			URL:         item.HTMLURL,
			Language:    item.Language,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return result, nil
}

// SearchTopics finds GitHub topics matching the name
func (c *ClientImpl) SearchTopics(ctx context.Context, name string, perPage int) ([]Topic, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("per_page", strconv.Itoa(perPage))

	var response struct {
		Items []struct {
			Name        string `json:"name"`
			DisplayName string `json:"display_name"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/search/topics", params.Encode(), &response); err != nil {
		return nil, err
	}

	topics := make([]Topic, 0, len(response.Items))
	for _, item := range response.Items {
		topics = append(topics, Topic{Name: item.Name, DisplayName: item.DisplayName})
	}
	return topics, nil
}

func (c *ClientImpl) get(ctx context.Context, path string, rawQuery string, target any) error {
	endpoint := c.baseURL + path
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		log.Warnf("GitHub API rate limit reached on %s", path)
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GitHub API error: %d", resp.StatusCode)
		log.Error(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return err
	}
	return nil
}
