// Package gateway sends messages through the external messaging gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/contractflow/contractflow/internal/errors"
	notifdomain "github.com/contractflow/contractflow/internal/notification/domain"
)

// HTTPGateway delivers messages over the gateway's HTTP API.
type HTTPGateway struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPGateway creates a new HTTPGateway.
func NewHTTPGateway(url, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
}

// Send submits one message and returns the gateway's message id.
func (g *HTTPGateway) Send(
	ctx context.Context,
	channel notifdomain.Channel,
	recipient string,
	content string,
) (string, error) {
	body, err := json.Marshal(sendRequest{
		Channel:   string(channel),
		Recipient: recipient,
		Content:   content,
	})
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrGateway, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apperrors.Wrapf(apperrors.ErrGateway, "gateway returned status %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.Wrap(err, "failed to decode gateway response")
	}
	if result.MessageID == "" {
		return "", apperrors.Wrap(apperrors.ErrGateway, "gateway returned no message id")
	}

	return result.MessageID, nil
}
