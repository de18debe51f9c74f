package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"futures-relay/internal/entity"
	"futures-relay/pkg/config"
	"futures-relay/pkg/utils"

	"github.com/shopspring/decimal"
)

// ErrInvalidConfig marks configuration errors; they are fatal at startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// Security holds the shared secret required on mutating requests.
type Security struct {
	PayloadToken string `mapstructure:"payload_token"`
}

// Mode holds the initial mode toggles.
type Mode struct {
	Bullish bool `mapstructure:"bullish"`
	Live    bool `mapstructure:"live"`
}

// Instrument holds per-instrument trading settings. Stop distances are in points
// and kept as strings so they are parsed as exact decimals.
type Instrument struct {
	Ticker string `mapstructure:"ticker"`
	Size   int64  `mapstructure:"size"`
	Narrow string `mapstructure:"narrow"`
	Medium string `mapstructure:"medium"`
	Wide   string `mapstructure:"wide"`
}

// StopDistances parses the three stop distances.
func (i Instrument) StopDistances() (map[entity.StopProfile]decimal.Decimal, error) {
	raw := map[entity.StopProfile]string{
		entity.Narrow: i.Narrow,
		entity.Medium: i.Medium,
		entity.Wide:   i.Wide,
	}
	out := make(map[entity.StopProfile]decimal.Decimal, len(raw))
	for profile, value := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%s stop distance %q: %w", profile, value, err)
		}
		if !d.IsPositive() {
			return nil, fmt.Errorf("%s stop distance must be positive, got %s", profile, d)
		}
		out[profile] = d
	}
	return out, nil
}

// ProductCode strips the leading slash from a futures ticker ("/ES" -> "ES").
func (i Instrument) ProductCode() string {
	return strings.TrimPrefix(i.Ticker, "/")
}

// Gate holds correlation gate settings.
type Gate struct {
	Retention     time.Duration `mapstructure:"retention"`
	TimeZone      string        `mapstructure:"timezone"`
	BlackoutStart string        `mapstructure:"blackout_start"`
	BlackoutEnd   string        `mapstructure:"blackout_end"`
}

// Engine holds position lifecycle settings.
type Engine struct {
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// Reconciler holds reconciliation loop settings.
type Reconciler struct {
	Interval            time.Duration `mapstructure:"interval"`
	TicksPerSession     int           `mapstructure:"ticks_per_session"`
	SessionCycles       int           `mapstructure:"session_cycles"`
	ExpiryAlertInterval time.Duration `mapstructure:"expiry_alert_interval"`
	ExpiryAlertCount    int           `mapstructure:"expiry_alert_count"`
}

// Broker holds the brokerage API settings.
type Broker struct {
	BaseURL             string        `mapstructure:"base_url"`
	Username            string        `mapstructure:"username"`
	Password            string        `mapstructure:"password"`
	AccountNumber       string        `mapstructure:"account_number"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	InstrumentCacheTTL  time.Duration `mapstructure:"instrument_cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Pushover holds configuration for the Pushover notifier.
type Pushover struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	User    string `mapstructure:"user"`
}

// Notifier selects and configures the push-notification transport.
type Notifier struct {
	Provider string   `mapstructure:"provider"`
	Telegram Telegram `mapstructure:"telegram"`
	Pushover Pushover `mapstructure:"pushover"`
}

// Config holds the full configuration for the relay service.
type Config struct {
	App         config.App            `mapstructure:"app"`
	Logger      config.Logger         `mapstructure:"logger"`
	Database    config.Database       `mapstructure:"database"`
	Redis       config.Redis          `mapstructure:"redis"`
	API         config.API            `mapstructure:"api"`
	Security    Security              `mapstructure:"security"`
	Mode        Mode                  `mapstructure:"mode"`
	Instruments map[string]Instrument `mapstructure:"instruments"`
	Gate        Gate                  `mapstructure:"gate"`
	Engine      Engine                `mapstructure:"engine"`
	Reconciler  Reconciler            `mapstructure:"reconciler"`
	Broker      Broker                `mapstructure:"broker"`
	Notifier    Notifier              `mapstructure:"notifier"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":                         "futures-relay",
		"app.env":                          "production",
		"logger.level":                     "info",
		"logger.encoding":                  "json",
		"api.host":                         "0.0.0.0",
		"api.port":                         5000,
		"security.payload_token":           "",
		"mode.bullish":                     true,
		"mode.live":                        false,
		"gate.retention":                   "90m",
		"gate.timezone":                    utils.VenueTimeZone,
		"gate.blackout_start":              "08:30",
		"gate.blackout_end":                "08:35",
		"engine.settle_delay":              "1s",
		"reconciler.interval":              "15s",
		"reconciler.ticks_per_session":     2880,
		"reconciler.session_cycles":        14,
		"reconciler.expiry_alert_interval": "12h",
		"reconciler.expiry_alert_count":    14,
		"broker.base_url":                  "https://api.tastyworks.com",
		"broker.username":                  "",
		"broker.password":                  "",
		"broker.account_number":            "",
		"broker.timeout":                   "10s",
		"broker.max_request_per_minute":    120,
		"broker.instrument_cache_ttl":      "1h",
		"notifier.provider":                "log",
		"notifier.telegram.bot_token":      "",
		"notifier.telegram.chat_id":        0,
		"notifier.pushover.base_url":       "https://api.pushover.net",
		"notifier.pushover.token":          "",
		"notifier.pushover.user":           "",
		"database.enabled":                 false,
		"database.ssl_mode":                "disable",
		"redis.enabled":                    false,
		"redis.stream_max_len":             10000,
	}
}

// Load loads and validates the relay configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults()); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize upper-cases instrument keys so webhook tickers match ("es" -> "ES").
func (c *Config) normalize() {
	out := make(map[string]Instrument, len(c.Instruments))
	for key, inst := range c.Instruments {
		out[strings.ToUpper(key)] = inst
	}
	c.Instruments = out
}

// InstrumentKeys returns the tracked instrument keys in a stable order.
func (c *Config) InstrumentKeys() []string {
	keys := make([]string, 0, len(c.Instruments))
	for k := range c.Instruments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	if c.Security.PayloadToken == "" {
		return fmt.Errorf("%w: security.payload_token is required", ErrInvalidConfig)
	}
	if len(c.Instruments) != 2 {
		return fmt.Errorf("%w: exactly two instruments are required, got %d", ErrInvalidConfig, len(c.Instruments))
	}
	for key, inst := range c.Instruments {
		if inst.Ticker == "" {
			return fmt.Errorf("%w: instruments.%s.ticker is required", ErrInvalidConfig, key)
		}
		if inst.Size <= 0 {
			return fmt.Errorf("%w: instruments.%s.size must be positive", ErrInvalidConfig, key)
		}
		if _, err := inst.StopDistances(); err != nil {
			return fmt.Errorf("%w: instruments.%s: %v", ErrInvalidConfig, key, err)
		}
	}
	if c.Gate.Retention <= 0 {
		return fmt.Errorf("%w: gate.retention must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Gate.TimeZone); err != nil {
		return fmt.Errorf("%w: gate.timezone: %v", ErrInvalidConfig, err)
	}
	for _, clock := range []string{c.Gate.BlackoutStart, c.Gate.BlackoutEnd} {
		if _, _, err := utils.ParseClock(clock); err != nil {
			return fmt.Errorf("%w: blackout time %q: %v", ErrInvalidConfig, clock, err)
		}
	}
	if c.Reconciler.Interval <= 0 || c.Reconciler.TicksPerSession <= 0 || c.Reconciler.SessionCycles <= 0 {
		return fmt.Errorf("%w: reconciler interval, ticks_per_session and session_cycles must be positive", ErrInvalidConfig)
	}
	if c.Reconciler.ExpiryAlertInterval <= 0 {
		return fmt.Errorf("%w: reconciler.expiry_alert_interval must be positive", ErrInvalidConfig)
	}
	if c.Broker.BaseURL == "" || c.Broker.Username == "" || c.Broker.Password == "" || c.Broker.AccountNumber == "" {
		return fmt.Errorf("%w: broker base_url, username, password and account_number are required", ErrInvalidConfig)
	}
	if c.Broker.MaxRequestPerMinute <= 0 {
		return fmt.Errorf("%w: broker.max_request_per_minute must be positive", ErrInvalidConfig)
	}
	switch c.Notifier.Provider {
	case "telegram":
		if c.Notifier.Telegram.BotToken == "" || c.Notifier.Telegram.ChatID == 0 {
			return fmt.Errorf("%w: notifier.telegram bot_token and chat_id are required", ErrInvalidConfig)
		}
	case "pushover":
		if c.Notifier.Pushover.Token == "" || c.Notifier.Pushover.User == "" {
			return fmt.Errorf("%w: notifier.pushover token and user are required", ErrInvalidConfig)
		}
	case "log":
	default:
		return fmt.Errorf("%w: unknown notifier.provider %q", ErrInvalidConfig, c.Notifier.Provider)
	}
	return nil
}
