// Package directory resolves seller contact information from the external
// seller directory service.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/notification/domain"
	"github.com/contractflow/contractflow/internal/notification/usecase"
)

// HTTPResolver resolves recipients over the seller directory's HTTP API.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a new HTTPResolver.
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type contactResponse struct {
	Address string `json:"address"`
	Channel string `json:"channel"`
}

// Resolve fetches the seller's preferred contact from the directory.
func (r *HTTPResolver) Resolve(ctx context.Context, sellerID uuid.UUID) (usecase.Recipient, error) {
	url := fmt.Sprintf("%s/v1/sellers/%s/contact", r.baseURL, sellerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return usecase.Recipient{}, apperrors.Wrap(err, "failed to build directory request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return usecase.Recipient{}, apperrors.Wrap(err, "directory request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return usecase.Recipient{}, apperrors.Wrapf(apperrors.ErrNotFound, "seller %s has no contact", sellerID)
	case resp.StatusCode != http.StatusOK:
		return usecase.Recipient{}, apperrors.Wrapf(
			apperrors.ErrGateway, "directory returned status %d", resp.StatusCode,
		)
	}

	var contact contactResponse
	if err := json.NewDecoder(resp.Body).Decode(&contact); err != nil {
		return usecase.Recipient{}, apperrors.Wrap(err, "failed to decode directory response")
	}

	channel := domain.Channel(contact.Channel)
	if !channel.IsValid() {
		return usecase.Recipient{}, apperrors.Wrapf(
			apperrors.ErrInvalidInput, "unknown channel %q for seller %s", contact.Channel, sellerID,
		)
	}

	return usecase.Recipient{Address: contact.Address, Channel: channel}, nil
}
