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

// AuthClient talks to the SwiftTax auth API
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAuthClient creates an auth client
func NewAuthClient(baseURL string, logger *zap.Logger) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Login exchanges credentials for a token pair
func (c *AuthClient) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	payload, err := json.Marshal(model.UserLogin{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("login request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login returned %d: %s", resp.StatusCode, string(body))
	}

	var tokens model.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, err
	}

	return &tokens, nil
}

// Logout revokes an access token
func (c *AuthClient) Logout(ctx context.Context, token string) error {
	url := c.baseURL + "/api/auth/logout"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("logout returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
