package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-notifier/internal/app"
	"github.com/jhoicas/stock-notifier/internal/application/dto"
	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/pkg/config"
	"github.com/jhoicas/stock-notifier/pkg/logger"
)

const channelID = "123456789"

type fakeChat struct {
	mu        sync.Mutex
	sent      []string
	inbound   chan ports.InboundMessage
	ready     chan struct{}
	openErr   error
	verifyErr error
	closed    atomic.Bool
}

func newFakeChat() *fakeChat {
	ready := make(chan struct{})
	close(ready)
	return &fakeChat{inbound: make(chan ports.InboundMessage, 4), ready: ready}
}

func (f *fakeChat) SendMessage(_ context.Context, channel, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, channel+"|"+content)
	return nil
}

func (f *fakeChat) Open() error { return f.openErr }

func (f *fakeChat) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeChat) Messages() <-chan ports.InboundMessage { return f.inbound }

func (f *fakeChat) Ready() <-chan struct{} { return f.ready }

func (f *fakeChat) VerifyChannel(context.Context, string, string) error { return f.verifyErr }

func (f *fakeChat) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test", Name: "stock-notifier"},
		HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 0},
		Discord: config.DiscordConfig{
			Token:     "token",
			ChannelID: channelID,
		},
		Broadcast: config.BroadcastConfig{
			Command:          "!stock",
			Interval:         time.Hour,
			Header:           "📦 Stock:",
			FailureMessage:   "Ocurrió un error al obtener los datos del stock.",
			MaxMessageLength: 2000,
			QueueSize:        4,
		},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error", Out: io.Discard})
}

func TestHTTP_StockDevuelveSeedPorDefecto(t *testing.T) {
	a, err := app.NewWithChat(testConfig(), testLogger(), newFakeChat())
	require.NoError(t, err)

	resp, err := a.HTTP().Test(httptest.NewRequest("GET", "/stock", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var items []dto.StockItemDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Equal(t, []dto.StockItemDTO{
		{Name: "Item1", Quantity: 10},
		{Name: "Item2", Quantity: 5},
		{Name: "Item3", Quantity: 20},
	}, items)
}

func TestNewWithChat_SeedInexistenteFalla(t *testing.T) {
	cfg := testConfig()
	cfg.Stock.SeedFile = "/no/existe/stock.yaml"
	_, err := app.NewWithChat(cfg, testLogger(), newFakeChat())
	require.Error(t, err)
}

func TestRun_ComandoYBroadcastProgramado(t *testing.T) {
	cfg := testConfig()
	cfg.Broadcast.Interval = 50 * time.Millisecond
	chat := newFakeChat()
	a, err := app.NewWithChat(cfg, testLogger(), chat)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	chat.inbound <- ports.InboundMessage{AuthorID: "u1", ChannelID: "555", Content: "!stock"}

	want := "📦 Stock:\nItem1: 10\nItem2: 5\nItem3: 20"
	assert.Eventually(t, func() bool {
		var onDemand, scheduled bool
		for _, m := range chat.messages() {
			onDemand = onDemand || m == "555|"+want
			scheduled = scheduled || m == channelID+"|"+want
		}
		return onDemand && scheduled
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
	assert.True(t, chat.closed.Load(), "la sesión de chat debe cerrarse al apagar")
}

func TestRun_CanalInvalidoEsFatal(t *testing.T) {
	chat := newFakeChat()
	chat.verifyErr = errors.Join(domain.ErrStartupConfig, errors.New("canal desconocido"))
	a, err := app.NewWithChat(testConfig(), testLogger(), chat)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = a.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStartupConfig)
	for _, m := range chat.messages() {
		assert.False(t, strings.HasPrefix(m, channelID+"|"), "no debe haber broadcast programado")
	}
}

func TestRun_FalloAlConectar(t *testing.T) {
	chat := newFakeChat()
	chat.openErr = errors.New("gateway no disponible")
	a, err := app.NewWithChat(testConfig(), testLogger(), chat)
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway")
}
