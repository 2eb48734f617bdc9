package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client posts messages to an HTTP mail relay using basic auth.
type Client struct {
	BaseURL    string
	Username   string
	APIKey     string
	From       string
	HTTPClient *http.Client
}

type SendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type SendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func NewClient(baseURL, username, apiKey, from string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		APIKey:   apiKey,
		From:     from,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send delivers a plain text message to a single recipient.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	_, err := c.SendMessage(ctx, &SendRequest{
		From:    c.From,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	return err
}

func (c *Client) SendMessage(ctx context.Context, msg *SendRequest) (*SendResponse, error) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := c.BaseURL + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIKey))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response SendResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return &response, nil
}
