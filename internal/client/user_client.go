package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swifttax/swifttax-api/internal/model"

	"go.uber.org/zap"
)

// userListResponse mirrors the admin list endpoint payload
type userListResponse struct {
	Users []model.User `json:"users"`
	Meta  struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"meta"`
}

// UserClient talks to the SwiftTax admin user API. It satisfies the
// admintable API interface.
type UserClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewUserClient creates a user client using the given bearer token
func NewUserClient(baseURL, token string, logger *zap.Logger) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// List fetches all users page by page, preserving server order
func (c *UserClient) List(ctx context.Context) ([]model.User, error) {
	const pageSize = 100

	var users []model.User
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/api/admin/users?page=%d&limit=%d", c.baseURL, page, pageSize)

		var out userListResponse
		if err := c.getJSON(ctx, url, &out); err != nil {
			return nil, err
		}

		users = append(users, out.Users...)
		if len(users) >= out.Meta.Total || len(out.Users) == 0 {
			return users, nil
		}
	}
}

// Create adds a user and returns the server-assigned record
func (c *UserClient) Create(ctx context.Context, create model.UserCreate) (*model.User, error) {
	url := c.baseURL + "/api/admin/users"

	var user model.User
	if err := c.sendJSON(ctx, http.MethodPost, url, create, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial patch and returns the updated record
func (c *UserClient) Update(ctx context.Context, id int, update model.UserUpdate) (*model.User, error) {
	url := fmt.Sprintf("%s/api/admin/users/%d", c.baseURL, id)

	var user model.User
	if err := c.sendJSON(ctx, http.MethodPatch, url, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStatus transitions a single user's status
func (c *UserClient) UpdateStatus(ctx context.Context, id int, status string) error {
	url := fmt.Sprintf("%s/api/admin/users/%d/status", c.baseURL, id)
	return c.sendJSON(ctx, http.MethodPatch, url, model.UserStatusUpdate{Status: status}, nil)
}

// Delete removes a user
func (c *UserClient) Delete(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/api/admin/users/%d", c.baseURL, id)
	return c.sendJSON(ctx, http.MethodDelete, url, nil, nil)
}

// Bulk applies one batch action and returns the affected count
func (c *UserClient) Bulk(ctx context.Context, action string, ids []int) (int, error) {
	url := c.baseURL + "/api/admin/users/bulk"

	var out model.BulkActionResponse
	err := c.sendJSON(ctx, http.MethodPost, url, model.BulkActionRequest{Action: action, IDs: ids}, &out)
	if err != nil {
		return 0, err
	}
	return out.Affected, nil
}

func (c *UserClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("user API request failed", zap.Error(err), zap.String("url", url))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", url, resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *UserClient) sendJSON(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("user API request failed", zap.Error(err), zap.String("url", url))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, string(respBody))
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}
