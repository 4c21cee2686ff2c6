package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers human-readable achievement messages to the user.
// Delivery is best effort; the engine's correctness never depends on it.
type Notifier interface {
	// Notify sends a notification for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "severity" is "success" or "error".
	// "message" is the human-readable text.
	Notify(ctx context.Context, userID int, severity, message string)
}

// notificationRequest is the payload accepted by the task service
type notificationRequest struct {
	UserID   int    `json:"user_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type taskNotifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewTaskNotifier creates a notifier that posts notifications to the task
// service. An empty baseURL disables delivery, which tests and local runs use.
func NewTaskNotifier(baseURL, apiKey string, logger *zap.Logger) *taskNotifier {
	return &taskNotifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Notify posts a notification to the task service. Fire-and-forget: any
// failure is logged and swallowed so an unreachable task service never
// fails an award or claim.
func (n *taskNotifier) Notify(ctx context.Context, userID int, severity, message string) {
	if n.baseURL == "" {
		return
	}

	payload, err := json.Marshal(notificationRequest{
		UserID:   userID,
		Severity: severity,
		Message:  message,
	})
	if err != nil {
		n.logger.Error("failed to marshal notification", zap.Error(err))
		return
	}

	url := fmt.Sprintf("%s/api/v6/tasks/notifications", n.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		n.logger.Error("failed to create notification request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("failed to deliver notification",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		n.logger.Warn("notification rejected by task service",
			zap.Int("user_id", userID),
			zap.Int("status", resp.StatusCode),
		)
	}
}
