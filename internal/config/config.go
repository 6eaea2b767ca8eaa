package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/Consult/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	LinkSecret       string        `mapstructure:"link_secret"`
	FrontendURL      string        `mapstructure:"frontend_url"`
	TokenGraceWindow time.Duration `mapstructure:"token_grace_window"`
	MinTokenTTL      time.Duration `mapstructure:"min_token_ttl"`

	GracePeriod        time.Duration `mapstructure:"grace_period"`
	SendBuffer         int           `mapstructure:"send_buffer"`
	MaxEventsPerSecond int           `mapstructure:"max_events_per_second"`

	ICEServers   []ICEServer   `mapstructure:"ice_servers"`
	Appointments []Appointment `mapstructure:"appointments"`
}

// Appointment seeds the appointment directory. ScheduledAt is RFC 3339.
type Appointment struct {
	ID               string `mapstructure:"uuid"`
	ProfessionalName string `mapstructure:"professional_name"`
	ClientName       string `mapstructure:"client_name"`
	ScheduledAt      string `mapstructure:"scheduled_at"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 9000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("link_secret", "")
	v.SetDefault("frontend_url", "")
	v.SetDefault("token_grace_window", "2h")
	v.SetDefault("min_token_ttl", "60s")
	v.SetDefault("grace_period", "10s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("max_events_per_second", 50)
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})

	// LINK_SECRET, FRONTEND_URL, PORT, ... override the file.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.LinkSecret == "" {
		errs = append(errs, errors.New("link_secret is required"))
	}
	if c.FrontendURL == "" {
		errs = append(errs, errors.New("frontend_url is required"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if _, err := c.AppointmentList(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AppointmentList converts the seeded appointments to domain values.
func (c *Config) AppointmentList() ([]domain.Appointment, error) {
	out := make([]domain.Appointment, 0, len(c.Appointments))
	for i, a := range c.Appointments {
		if a.ID == "" {
			return nil, fmt.Errorf("appointments[%d]: uuid is required", i)
		}
		at, err := time.Parse(time.RFC3339, a.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("appointments[%d]: scheduled_at: %w", i, err)
		}
		out = append(out, domain.Appointment{
			ID:               domain.AppointmentID(a.ID),
			ProfessionalName: a.ProfessionalName,
			ClientName:       a.ClientName,
			ScheduledAt:      at,
		})
	}
	return out, nil
}
