package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/calendar"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

const (
	SourceGoogle = "google"
	SourceMock   = "mock"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	Env        string `mapstructure:"ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	DBUrl             string `mapstructure:"DATABASE_URL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	// Calendar
	CalendarSource     string        `mapstructure:"CALENDAR_SOURCE"`
	GoogleClientID     string        `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string        `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	GoogleCalendarID   string        `mapstructure:"GOOGLE_CALENDAR_ID"`
	MockSeed           int64         `mapstructure:"MOCK_SEED"`
	CalendarTimeout    time.Duration `mapstructure:"CALENDAR_TIMEOUT"`

	// Scheduling rules
	BusinessTimezone       string `mapstructure:"BUSINESS_TIMEZONE"`
	BusinessHoursStart     int    `mapstructure:"BUSINESS_HOURS_START"`
	BusinessHoursEnd       int    `mapstructure:"BUSINESS_HOURS_END"`
	AppointmentDurationMin int    `mapstructure:"APPOINTMENT_DURATION_MIN"`
	BufferTimeMin          int    `mapstructure:"BUFFER_TIME_MIN"`
	AvailabilityRangeDays  int    `mapstructure:"AVAILABILITY_RANGE_DAYS"`
	FetchConcurrency       int    `mapstructure:"FETCH_CONCURRENCY"`

	// Rate limiting
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`

	// Mail
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	BusinessEmail string `mapstructure:"BUSINESS_EMAIL"`
}

var keys = map[string]any{
	"SERVER_PORT": "8080",
	"ENV":         "development",
	"LOG_LEVEL":   "",

	"CORS_ALLOWED_ORIGINS": "",

	"DATABASE_URL":        "",
	"JWT_SECRET":          "",
	"ADMIN_EMAIL":         "",
	"ADMIN_PASSWORD_HASH": "",

	"CALENDAR_SOURCE":      SourceGoogle,
	"GOOGLE_CLIENT_ID":     "",
	"GOOGLE_CLIENT_SECRET": "",
	"GOOGLE_REFRESH_TOKEN": "",
	"GOOGLE_CALENDAR_ID":   "",
	"MOCK_SEED":            42,
	"CALENDAR_TIMEOUT":     "10s",

	"BUSINESS_TIMEZONE":        timezone.DefaultTimezone,
	"BUSINESS_HOURS_START":     domain.DefaultOpeningHour,
	"BUSINESS_HOURS_END":       domain.DefaultClosingHour,
	"APPOINTMENT_DURATION_MIN": int(domain.DefaultAppointmentDuration / time.Minute),
	"BUFFER_TIME_MIN":          int(domain.DefaultBufferTime / time.Minute),
	"AVAILABILITY_RANGE_DAYS":  30,
	"FETCH_CONCURRENCY":        4,

	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"RATE_LIMIT_PER_MIN": 20,

	"SMTP_HOST":      "smtp.gmail.com",
	"SMTP_PORT":      587,
	"SMTP_USER":      "",
	"SMTP_PASSWORD":  "",
	"BUSINESS_EMAIL": "",
}

// Load reads .env.local and .env (when present) into the process
// environment, then resolves every key from the environment over defaults.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	return FromViper(viper.New())
}

// FromViper resolves the configuration from v. Defaults and env bindings are
// registered on v first, so explicit v.Set calls win.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for k, def := range keys {
		v.SetDefault(k, def)
		// Unmarshal only sees env values for keys viper already knows.
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, httperr.Wrap(httperr.CodeConfiguration, fmt.Errorf("decode config: %w", err))
	}

	cfg.CalendarSource = strings.ToLower(strings.TrimSpace(cfg.CalendarSource))
	return &cfg, nil
}

// Validate checks the settings the process cannot run without. Calendar
// credentials are only required for the google source.
func (c *Config) Validate() error {
	var problems []string

	switch c.CalendarSource {
	case SourceGoogle:
		if missing := c.GoogleCredentials().Missing(); len(missing) > 0 {
			problems = append(problems, "missing "+strings.Join(missing, ", "))
		}
	case SourceMock:
	default:
		problems = append(problems, fmt.Sprintf("CALENDAR_SOURCE must be %q or %q", SourceGoogle, SourceMock))
	}

	if !timezone.IsValid(c.BusinessTimezone) {
		problems = append(problems, fmt.Sprintf("BUSINESS_TIMEZONE %q is not a known zone", c.BusinessTimezone))
	}
	if err := c.Rules().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.CalendarTimeout <= 0 {
		problems = append(problems, "CALENDAR_TIMEOUT must be positive")
	}
	if c.AvailabilityRangeDays <= 0 || c.AvailabilityRangeDays > domain.MaxRangeDays {
		problems = append(problems, fmt.Sprintf("AVAILABILITY_RANGE_DAYS must be within 1..%d", domain.MaxRangeDays))
	}
	if c.AdminEmail != "" && (c.AdminPasswordHash == "" || c.JWTSecret == "") {
		problems = append(problems, "ADMIN_EMAIL requires ADMIN_PASSWORD_HASH and JWT_SECRET")
	}

	if len(problems) > 0 {
		return httperr.Detailed(httperr.CodeConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) GoogleCredentials() calendar.Credentials {
	return calendar.Credentials{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RefreshToken: c.GoogleRefreshToken,
		CalendarID:   c.GoogleCalendarID,
	}
}

func (c *Config) Rules() domain.Rules {
	return domain.Rules{
		AppointmentDuration: time.Duration(c.AppointmentDurationMin) * time.Minute,
		BufferTime:          time.Duration(c.BufferTimeMin) * time.Minute,
		BusinessHours: domain.BusinessHours{
			Start: c.BusinessHoursStart,
			End:   c.BusinessHoursEnd,
		},
	}
}

func (c *Config) Location() *time.Location {
	return timezone.Location(c.BusinessTimezone)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) AdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != "" && c.JWTSecret != ""
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPassword != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
