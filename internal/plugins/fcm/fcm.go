package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/config"
	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
)

// FCMClient talks to the Firebase Cloud Messaging HTTP v1 API. The
// delivery id it returns is the message name FCM assigns.
type FCMClient struct {
	projectID string
	token     string
	http      *http.Client
}

func NewFCMClient(cfg config.PushConfig) *FCMClient {
	return &FCMClient{
		projectID: cfg.ProjectID,
		token:     cfg.BearerToken,
		http:      http.DefaultClient,
	}
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Token        string            `json:"token"`
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

func (c *FCMClient) Send(ctx context.Context, msg contracts.PushMessage) (string, error) {
	apiURL := fmt.Sprintf("https://fcm.googleapis.com/v1/projects/%s/messages:send", c.projectID)

	body, err := json.Marshal(fcmRequest{
		Message: fcmMessage{
			Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
			Data:         msg.Data,
			Token:        msg.Token,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", fmt.Errorf("fcm error: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var result struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Name, nil
}
