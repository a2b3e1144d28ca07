package config

import (
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/scorebox/scorebox/util/random"
)

// Settings holds runtime options for the API server. Values come from the
// optional TOML file named by SB_CONFIG_FILE, then environment variables
// override individual fields. Secrets left empty are generated at startup,
// which invalidates outstanding tokens and confirmation codes on restart.
type Settings struct {
	Listen        string `toml:"listen"`
	Port          int    `toml:"port"`
	TokenSecret   string `toml:"token_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
	CodeSecret    string `toml:"code_secret"`

	SMTP SMTPSettings `toml:"smtp"`
}

// SMTPSettings configures confirmation code delivery. An empty Host keeps
// delivery on the log-only dispatcher.
type SMTPSettings struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	From     string `toml:"from"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

func defaultSettings() *Settings {
	return &Settings{
		Listen:        "",
		Port:          8080,
		TokenTTLHours: 24,
		SMTP: SMTPSettings{
			Port: 587,
			From: "noreply@localhost",
		},
	}
}

// LoadSettings builds the effective settings from defaults, the optional
// TOML file and environment overrides, in that order.
func LoadSettings() (*Settings, error) {
	s := defaultSettings()

	if path := GetConfigFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, err
		}
	}

	applyEnv(&s.Listen, "SB_LISTEN")
	applyEnvInt(&s.Port, "SB_PORT")
	applyEnv(&s.TokenSecret, "SB_TOKEN_SECRET")
	applyEnvInt(&s.TokenTTLHours, "SB_TOKEN_TTL_HOURS")
	applyEnv(&s.CodeSecret, "SB_CODE_SECRET")
	applyEnv(&s.SMTP.Host, "SB_SMTP_HOST")
	applyEnvInt(&s.SMTP.Port, "SB_SMTP_PORT")
	applyEnv(&s.SMTP.From, "SB_SMTP_FROM")
	applyEnv(&s.SMTP.Username, "SB_SMTP_USERNAME")
	applyEnv(&s.SMTP.Password, "SB_SMTP_PASSWORD")

	if s.TokenSecret == "" {
		s.TokenSecret = random.Seq(32)
	}
	if s.CodeSecret == "" {
		s.CodeSecret = random.Seq(32)
	}

	return s, nil
}

func applyEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func applyEnvInt(dst *int, key string) {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			*dst = n
		}
	}
}
