package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xzeggaedu/fica-academic-sub002/internal/db"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
)

// Fetcher retrieves the current academic load file set. The scheduler
// only ever acts on the most recently resolved result.
type Fetcher interface {
	FetchFiles(ctx context.Context) ([]model.AcademicLoadFile, error)
}

// HTTPFetcher pulls the list from the API's list endpoint. Used when the
// watch worker runs apart from the API process.
type HTTPFetcher struct {
	url        string
	httpClient *http.Client
}

func NewHTTPFetcher(listURL string) *HTTPFetcher {
	return &HTTPFetcher{
		url: listURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (f *HTTPFetcher) FetchFiles(ctx context.Context) ([]model.AcademicLoadFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch load files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var list model.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return list.Data, nil
}

// RepositoryFetcher reads straight from the database. Used when the
// watch worker shares a deployment with the API.
type RepositoryFetcher struct {
	repo db.Repository
}

func NewRepositoryFetcher(repo db.Repository) *RepositoryFetcher {
	return &RepositoryFetcher{repo: repo}
}

func (f *RepositoryFetcher) FetchFiles(ctx context.Context) ([]model.AcademicLoadFile, error) {
	files, _, err := f.repo.ListFiles(ctx, 0, 0)
	return files, err
}
