package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DocumentClient handles communication with the Documents Service, which
// owns the per-user tax form and document counters.
type DocumentClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// DocumentCounts represents the counters owned by the documents service
type DocumentCounts struct {
	TaxForms  int `json:"taxForms"`
	Documents int `json:"documents"`
}

type documentCountsResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    DocumentCounts `json:"data"`
}

// NewDocumentClient creates a new Documents Service client
func NewDocumentClient(baseURL, serviceKey string, logger *zap.Logger) *DocumentClient {
	return &DocumentClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetCounts fetches the current counters for a user
func (c *DocumentClient) GetCounts(ctx context.Context, userID int) (*DocumentCounts, error) {
	url := fmt.Sprintf("%s/api/service/users/%d/counts", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Service-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to reach documents service", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("documents service returned %d: %s", resp.StatusCode, string(body))
	}

	var out documentCountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &out.Data, nil
}
