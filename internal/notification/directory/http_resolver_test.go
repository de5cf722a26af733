package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/notification/domain"
)

func TestHTTPResolver_Resolve(t *testing.T) {
	sellerID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/sellers/"+sellerID.String()+"/contact", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"address":"+5511999998888","channel":"WHATSAPP"}`))
		}))
		defer server.Close()

		resolver := NewHTTPResolver(server.URL, time.Second)

		recipient, err := resolver.Resolve(context.Background(), sellerID)
		require.NoError(t, err)
		assert.Equal(t, "+5511999998888", recipient.Address)
		assert.Equal(t, domain.ChannelWhatsApp, recipient.Channel)
	})

	t.Run("Error_SellerNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		resolver := NewHTTPResolver(server.URL, time.Second)

		_, err := resolver.Resolve(context.Background(), sellerID)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("Error_ServerFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		resolver := NewHTTPResolver(server.URL, time.Second)

		_, err := resolver.Resolve(context.Background(), sellerID)
		assert.True(t, apperrors.Is(err, apperrors.ErrGateway))
	})

	t.Run("Error_UnknownChannel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"address":"a@b.com","channel":"CARRIER_PIGEON"}`))
		}))
		defer server.Close()

		resolver := NewHTTPResolver(server.URL, time.Second)

		_, err := resolver.Resolve(context.Background(), sellerID)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
