package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Значения по умолчанию
const (
	DefaultPort            = 3000
	DefaultLogLevel        = "info"
	DefaultJournalDSN      = ":memory:"
	DefaultLeaseTimeout    = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

var (
	// ErrInvalidPort indicates port outside 1..65535
	ErrInvalidPort = errors.New("port must be in range 1..65535")

	// ErrInvalidLogLevel indicates unknown log level name
	ErrInvalidLogLevel = errors.New("unknown log level")

	// ErrInvalidValue indicates malformed or out of range value
	ErrInvalidValue = errors.New("invalid config value")
)

// Config конфигурация сервера
type Config struct {
	Host       string
	LogLevel   string
	JournalDSN string
	// RateLimit запросов в минуту с одного IP, 0 - без лимита
	RateLimit       int
	Port            int
	LeaseTimeout    time.Duration
	ShutdownTimeout time.Duration
	ShowVersion     bool
}

// Load разбирает флаги командной строки и переменные окружения.
// Переменная окружения, если задана, имеет приоритет над флагом.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	fs := newFlagSet(cfg)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("tvsync-server", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", DefaultPort, "HTTP port")
	fs.StringVar(&cfg.Host, "host", "", "Listen host (empty = all interfaces)")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.JournalDSN, "journal", DefaultJournalDSN, "SQLite DSN for leadership journal (empty disables)")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 0, "Requests per minute per IP (0 disables)")
	fs.DurationVar(&cfg.LeaseTimeout, "lease-timeout", DefaultLeaseTimeout, "Leader lease duration")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", DefaultShutdownTimeout, "Graceful shutdown timeout")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")

	return fs
}

// PrintUsage выводит справку по флагам и переменным окружения в w
func PrintUsage(w io.Writer) {
	fs := newFlagSet(&Config{})
	fs.SetOutput(w)

	fmt.Fprintf(w, "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
	fmt.Fprintln(w, "\nEnvironment (overrides flags):")
	fmt.Fprintln(w, "  PORT, HOST, LOG_LEVEL, JOURNAL_DSN, RATE_LIMIT, LEASE_TIMEOUT")
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidPort, v)
		}
		c.Port = port
	}

	if v := getenv("HOST"); v != "" {
		c.Host = v
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// JOURNAL_DSN задается только непустым: выключить журнал можно флагом -journal=""
	if v := getenv("JOURNAL_DSN"); v != "" {
		c.JournalDSN = v
	}

	if v := getenv("RATE_LIMIT"); v != "" {
		rate, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: RATE_LIMIT=%q", ErrInvalidValue, v)
		}
		c.RateLimit = rate
	}

	if v := getenv("LEASE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: LEASE_TIMEOUT=%q", ErrInvalidValue, v)
		}
		c.LeaseTimeout = d
	}

	return nil
}

// Validate проверяет значения
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.Port)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidValue)
	}

	if c.LeaseTimeout <= 0 {
		return fmt.Errorf("%w: lease timeout must be positive", ErrInvalidValue)
	}

	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown timeout must not be negative", ErrInvalidValue)
	}

	return nil
}

// Addr адрес для net.Listen
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseLogLevel переводит имя уровня в slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}
