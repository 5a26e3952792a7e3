package config

import "github.com/ilyakaznacheev/cleanenv"

type Config struct {
	Port   int `env:"PORT" env-default:"8080"`
	OpenAI OpenAIConfig
	SMTP   SMTPConfig
}

// Credentials carry placeholder defaults so a process without real secrets
// still starts; calls against the collaborators will fail, not the boot.
type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY" env-default:"sk-placeholder"`
	Model  string `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	User     string `env:"SMTP_USER" env-default:"noreply@recapd.local"`
	Password string `env:"SMTP_PASSWORD" env-default:"placeholder"`
	From     string `env:"SMTP_FROM" env-default:""`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}

	return &cfg
}
