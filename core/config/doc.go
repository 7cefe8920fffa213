// Package config loads typed configuration from environment variables.
//
// Fields are parsed with caarlos0/env, so struct tags control names,
// defaults and required values. A .env file in the working directory is
// read once on first use; variables already present in the environment win.
//
//	type AppConfig struct {
//		Name       string            `env:"APP_NAME" envDefault:"flare"`
//		JSONPretty bool              `env:"JSON_PRETTY" envDefault:"false"`
//		Vars       map[string]string `env:"APP_VARS"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// MustLoad panics instead of returning the error, which suits main.
//
// # Caching
//
// The first Load for a type parses the environment and stores the result.
// Later calls for the same type copy the stored value, even if the
// environment changed in between. Tests that set variables call Reset
// first.
package config
