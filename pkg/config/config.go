package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jhoicas/stock-notifier/internal/domain"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Discord   DiscordConfig
	Broadcast BroadcastConfig
	Stock     StockConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host            string
	Port            int
	RateLimitMax    int // peticiones por ventana e IP en /stock; 0 = sin límite
	RateLimitWindow time.Duration
	CORSOrigins     string
	SwaggerFile     string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DiscordConfig credenciales y destino del bot.
type DiscordConfig struct {
	Token     string // secreto opaco, obligatorio
	GuildID   string // opcional: servidor al que debe pertenecer ChannelID
	ChannelID string // destino del broadcast programado; vacío = deshabilitado
}

// BroadcastConfig comportamiento del dispatcher y del scheduler.
type BroadcastConfig struct {
	Command          string
	Interval         time.Duration
	Header           string
	FailureMessage   string
	MaxMessageLength int
	QueueSize        int
}

// StockConfig origen de los datos de stock.
type StockConfig struct {
	SeedFile      string // YAML opcional; vacío = seed por defecto
	WatchSeed     bool
	SourceURL     string // si no está vacío el bot lee GET {SourceURL}/stock en lugar del store local
	SourceTimeout time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, PORT, DISCORD_TOKEN, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-notifier"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			// PORT es el nombre que usan los PaaS; HTTP_PORT se mantiene por compatibilidad.
			Port:            getInt(v, "PORT", getInt(v, "HTTP_PORT", 10000)),
			RateLimitMax:    getInt(v, "HTTP_RATE_LIMIT_MAX", 5),
			RateLimitWindow: getDuration(v, "HTTP_RATE_LIMIT_WINDOW", time.Minute),
			CORSOrigins:     getString(v, "HTTP_CORS_ORIGINS", "*"),
			SwaggerFile:     getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Discord: DiscordConfig{
			Token:     getString(v, "DISCORD_TOKEN", getString(v, "TOKEN", "")),
			GuildID:   getString(v, "DISCORD_GUILD_ID", ""),
			ChannelID: getString(v, "DISCORD_CHANNEL_ID", ""),
		},
		Broadcast: BroadcastConfig{
			Command:          getString(v, "BOT_COMMAND", "!stock"),
			Interval:         getDuration(v, "BROADCAST_INTERVAL", 30*time.Second),
			Header:           getString(v, "BROADCAST_HEADER", "📦 Stock:"),
			FailureMessage:   getString(v, "BROADCAST_FAILURE_MESSAGE", "Ocurrió un error al obtener los datos del stock."),
			MaxMessageLength: getInt(v, "BROADCAST_MAX_MESSAGE_LENGTH", 2000),
			QueueSize:        getInt(v, "BROADCAST_QUEUE_SIZE", 16),
		},
		Stock: StockConfig{
			SeedFile:      getString(v, "STOCK_SEED_FILE", ""),
			WatchSeed:     getBool(v, "STOCK_WATCH_SEED", true),
			SourceURL:     getString(v, "STOCK_SOURCE_URL", ""),
			SourceTimeout: getDuration(v, "STOCK_SOURCE_TIMEOUT", 10*time.Second),
		},
	}
}

// Validate verifica los valores obligatorios. Todo error envuelve domain.ErrStartupConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Discord.Token) == "" {
		return fmt.Errorf("%w: DISCORD_TOKEN es obligatorio", domain.ErrStartupConfig)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: puerto HTTP inválido: %d", domain.ErrStartupConfig, c.HTTP.Port)
	}
	if c.Broadcast.Command == "" {
		return fmt.Errorf("%w: BOT_COMMAND no puede estar vacío", domain.ErrStartupConfig)
	}
	if c.Broadcast.Interval < 0 {
		return fmt.Errorf("%w: BROADCAST_INTERVAL negativo", domain.ErrStartupConfig)
	}
	if c.Discord.ChannelID != "" && !isSnowflake(c.Discord.ChannelID) {
		return fmt.Errorf("%w: DISCORD_CHANNEL_ID inválido: %q", domain.ErrStartupConfig, c.Discord.ChannelID)
	}
	if c.Discord.GuildID != "" {
		if !isSnowflake(c.Discord.GuildID) {
			return fmt.Errorf("%w: DISCORD_GUILD_ID inválido: %q", domain.ErrStartupConfig, c.Discord.GuildID)
		}
		if c.Discord.ChannelID == "" {
			return fmt.Errorf("%w: DISCORD_GUILD_ID requiere DISCORD_CHANNEL_ID", domain.ErrStartupConfig)
		}
	}
	return nil
}

// isSnowflake los IDs de Discord son enteros sin signo de 64 bits en decimal.
func isSnowflake(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getDuration acepta "30s", "1m" o un número de segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
