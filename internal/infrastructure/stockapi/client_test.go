package stockapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/stockapi"
)

func TestSnapshot_RespuestaValida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Item1","quantity":10},{"name":"Item2","quantity":5},{"name":"Item3","quantity":20}]`))
	}))
	defer srv.Close()

	snap, err := stockapi.NewClient(srv.URL+"/", time.Second).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSeed(), snap.Items())
}

func TestSnapshot_StatusNoExitoso(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := stockapi.NewClient(srv.URL, time.Second).Snapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "500")
}

func TestSnapshot_CuerpoInvalido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := stockapi.NewClient(srv.URL, time.Second).Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestSnapshot_ArticuloInvalido(t *testing.T) {
	bodies := []string{
		`[{"name":"","quantity":1}]`,
		`[{"name":"Item1","quantity":-2}]`,
		`[{"name":"Item1\nFake: 99","quantity":1}]`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		_, err := stockapi.NewClient(srv.URL, time.Second).Snapshot(context.Background())
		srv.Close()
		assert.ErrorIs(t, err, domain.ErrFetch, body)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, body)
	}
}

func TestSnapshot_ServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := stockapi.NewClient(url, time.Second).Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestSnapshot_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := stockapi.NewClient(srv.URL, 20*time.Millisecond).Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetch)
}
