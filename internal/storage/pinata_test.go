package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsign/internal/config"
	"docsign/internal/storage"
)

func TestNewPinata_Validation(t *testing.T) {
	_, err := storage.NewPinata(config.PinataConfig{Gateway: "gw"})
	assert.Error(t, err)

	_, err = storage.NewPinata(config.PinataConfig{JWT: "jwt"})
	assert.Error(t, err)
}

func TestPinataStore_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotAuth, gotName, gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			f, fh, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			b, _ := io.ReadAll(f)
			gotName = fh.Filename
			gotBody = string(b)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"IpfsHash":"Qm123","PinSize":12,"Timestamp":"2024-01-01T00:00:00Z"}`))
		}))
		defer srv.Close()

		s, err := storage.NewPinata(config.PinataConfig{APIURL: srv.URL, JWT: "secret", Gateway: "gw.example"})
		require.NoError(t, err)

		ref, err := s.Upload(context.Background(), strings.NewReader("hello"), "contract.pdf")
		require.NoError(t, err)

		assert.Equal(t, storage.ContentRef{ContentID: "Qm123", URL: "https://gw.example/ipfs/Qm123"}, ref)
		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "contract.pdf", gotName)
		assert.Equal(t, "hello", gotBody)
	})

	t.Run("empty content never reaches the service", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		s, err := storage.NewPinata(config.PinataConfig{APIURL: srv.URL, JWT: "secret", Gateway: "gw"})
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), strings.NewReader(""), "empty.pdf")
		assert.ErrorIs(t, err, storage.ErrInputInvalid)
		assert.False(t, called)
	})

	t.Run("non-2xx is storage unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		s, err := storage.NewPinata(config.PinataConfig{APIURL: srv.URL, JWT: "bad", Gateway: "gw"})
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), strings.NewReader("x"), "a.pdf")
		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	})

	t.Run("malformed body is storage unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"nope":`))
		}))
		defer srv.Close()

		s, err := storage.NewPinata(config.PinataConfig{APIURL: srv.URL, JWT: "jwt", Gateway: "gw"})
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), strings.NewReader("x"), "a.pdf")
		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	})

	t.Run("unreachable service is storage unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		s, err := storage.NewPinata(config.PinataConfig{APIURL: url, JWT: "jwt", Gateway: "gw"})
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), strings.NewReader("x"), "a.pdf")
		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	})
}
