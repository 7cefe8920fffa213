package demo

import "github.com/dmitrymomot/flare/core/server"

// Config is the application configuration loaded from the environment.
type Config struct {
	Server server.Config

	AppName    string            `env:"APP_NAME" envDefault:"flare"`
	Env        string            `env:"APP_ENV" envDefault:"development"`
	LogLevel   string            `env:"LOG_LEVEL" envDefault:"info"`
	JSONPretty bool              `env:"JSON_PRETTY" envDefault:"false"`
	JSONIndent int               `env:"JSON_INDENT" envDefault:"2"`
	Vars       map[string]string `env:"APP_VARS"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MaxBodySize int64    `env:"MAX_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
