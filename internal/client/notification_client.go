package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swifttax/swifttax-api/internal/model"

	"go.uber.org/zap"
)

// NotificationClient talks to the SwiftTax notification API on behalf of a
// signed-in user. It satisfies the panel's API interface.
type NotificationClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNotificationClient creates a notification client using the given bearer
// token
func NewNotificationClient(baseURL, token string, logger *zap.Logger) *NotificationClient {
	return &NotificationClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// List fetches the caller's most recent notifications
func (c *NotificationClient) List(ctx context.Context, limit int) ([]model.Notification, error) {
	url := fmt.Sprintf("%s/api/notifications?limit=%d", c.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch notifications", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("notification list returned %d: %s", resp.StatusCode, string(body))
	}

	var out model.NotificationListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return out.Data.Notifications, nil
}

// MarkRead marks a notification as read. Only HTTP completion matters; the
// response body is not relied upon.
func (c *NotificationClient) MarkRead(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/api/notifications/%d/read", c.baseURL, id)
	return c.mutate(ctx, http.MethodPatch, url)
}

// Delete removes a notification
func (c *NotificationClient) Delete(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/api/notifications/%d", c.baseURL, id)
	return c.mutate(ctx, http.MethodDelete, url)
}

func (c *NotificationClient) mutate(ctx context.Context, method, url string) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, string(body))
	}

	return nil
}

func (c *NotificationClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}
