// Package app construye el contexto de la aplicación: cada componente se crea una vez al
// arrancar y se pasa por referencia a quien lo necesita, sin estado global.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-notifier/internal/application/notification"
	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/application/stock"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/discord"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-notifier/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/seed"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/stockapi"
	httpRouter "github.com/jhoicas/stock-notifier/internal/interfaces/http"
	"github.com/jhoicas/stock-notifier/pkg/config"
	"github.com/jhoicas/stock-notifier/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// ChatClient lo que la aplicación necesita de la plataforma de chat.
// La implementación de producción es *discord.Session.
type ChatClient interface {
	ports.ChatSender
	Open() error
	Close() error
	Messages() <-chan ports.InboundMessage
	Ready() <-chan struct{}
	VerifyChannel(ctx context.Context, guildID, channelID string) error
}

var _ ChatClient = (*discord.Session)(nil)

// App contexto de la aplicación.
type App struct {
	cfg *config.Config
	log *logger.Logger

	store      *memory.StockStore
	query      *stock.QueryService
	chat       ChatClient
	dispatcher *notification.Dispatcher
	listener   *notification.Listener
	scheduler  *notification.Scheduler
	http       *fiber.App
}

// New construye la aplicación con la sesión de Discord real.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	chat, err := discord.New(cfg.Discord.Token, log.Component("discord"))
	if err != nil {
		return nil, err
	}
	return NewWithChat(cfg, log, chat)
}

// NewWithChat construye la aplicación con el cliente de chat indicado.
func NewWithChat(cfg *config.Config, log *logger.Logger, chat ChatClient) (*App, error) {
	items := entity.DefaultSeed()
	if cfg.Stock.SeedFile != "" {
		loaded, err := seed.Load(cfg.Stock.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("cargar seed: %w", err)
		}
		items = loaded
	}
	store, err := memory.NewStockStore(items)
	if err != nil {
		return nil, fmt.Errorf("inicializar stock: %w", err)
	}
	query := stock.NewQueryService(store)

	// Por defecto el bot lee el stock en proceso; la API HTTP queda para consumidores externos.
	var source ports.SnapshotSource = query
	if cfg.Stock.SourceURL != "" {
		source = stockapi.NewClient(cfg.Stock.SourceURL, cfg.Stock.SourceTimeout)
	}

	dispatcher := notification.NewDispatcher(source, chat, notification.Config{
		Header:           cfg.Broadcast.Header,
		FailureMessage:   cfg.Broadcast.FailureMessage,
		MaxMessageLength: cfg.Broadcast.MaxMessageLength,
		QueueSize:        cfg.Broadcast.QueueSize,
	}, log.Component("dispatcher"))

	a := &App{
		cfg:        cfg,
		log:        log,
		store:      store,
		query:      query,
		chat:       chat,
		dispatcher: dispatcher,
		listener:   notification.NewListener(cfg.Broadcast.Command, dispatcher, log.Component("listener")),
		scheduler: notification.NewScheduler(dispatcher, cfg.Discord.ChannelID, cfg.Broadcast.Interval,
			log.Component("scheduler")),
	}
	a.http = a.buildHTTP()
	return a, nil
}

func (a *App) buildHTTP() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               a.cfg.App.Name,
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 60,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs (solo si existe el archivo)
	if a.cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(a.cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: a.cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Stock Notifier API",
			}))
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:         a.cfg.App.Name,
		StockQuery:      a.query,
		StockReport:     infrapdf.NewMarotoStockReport("Reporte de stock"),
		RateLimitMax:    a.cfg.HTTP.RateLimitMax,
		RateLimitWindow: a.cfg.HTTP.RateLimitWindow,
		CORSOrigins:     a.cfg.HTTP.CORSOrigins,
	})
	return app
}

// HTTP devuelve la app Fiber (útil para tests con app.Test).
func (a *App) HTTP() *fiber.App { return a.http }

// Run conecta el bot, levanta el servidor HTTP y los bucles de eventos. Bloquea hasta que ctx
// se cancela o falla un componente de arranque; luego apaga todo de forma ordenada.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.chat.Open(); err != nil {
		return err
	}
	defer func() {
		if err := a.chat.Close(); err != nil {
			a.log.Error().Err(err).Msg("cerrar sesión de chat")
		}
	}()

	var wg sync.WaitGroup
	spawn := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}

	spawn(a.dispatcher.Run)
	spawn(func(ctx context.Context) { a.listener.Run(ctx, a.chat.Messages()) })
	if a.cfg.Stock.SeedFile != "" && a.cfg.Stock.WatchSeed {
		spawn(func(ctx context.Context) {
			if err := seed.Watch(ctx, a.cfg.Stock.SeedFile, a.store, a.log.Component("seed")); err != nil {
				a.log.Error().Err(err).Str("path", a.cfg.Stock.SeedFile).Msg("watcher de seed finalizado")
			}
		})
	}

	httpErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := a.http.Listen(a.cfg.HTTP.Addr()); err != nil {
			httpErr <- fmt.Errorf("servidor HTTP: %w", err)
		}
	}()

	runErr := a.awaitReady(ctx, httpErr, spawn)
	if runErr == nil {
		select {
		case <-ctx.Done():
		case runErr = <-httpErr:
		}
	}

	a.log.Info().Msg("apagando aplicación...")
	cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.http.ShutdownWithContext(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("apagado del servidor")
	}
	wg.Wait()
	return runErr
}

// awaitReady espera la sesión de chat, verifica el canal destino y arranca el scheduler.
func (a *App) awaitReady(ctx context.Context, httpErr <-chan error, spawn func(func(context.Context))) error {
	select {
	case <-a.chat.Ready():
	case <-ctx.Done():
		return nil
	case err := <-httpErr:
		return err
	}

	if a.cfg.Discord.ChannelID == "" {
		a.log.Warn().Msg("DISCORD_CHANNEL_ID vacío: solo se atenderán comandos")
		return nil
	}
	if err := a.chat.VerifyChannel(ctx, a.cfg.Discord.GuildID, a.cfg.Discord.ChannelID); err != nil {
		return err
	}
	spawn(a.scheduler.Run)
	return nil
}
