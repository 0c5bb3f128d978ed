package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-feecting"
)

const envPrefix = "FEECTING"

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"responder": "responder.kind",
	"endpoint":  "responder.endpoint",
	"timeout":   "jobs.timeout",
	"log-level": "logging.level",
}

// loadConfig layers defaults, the optional config file, FEECTING_* env vars
// and explicit flags, in increasing priority.
func loadConfig(path string, flags *pflag.FlagSet) (feecting.Config, error) {
	cfg := feecting.DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return feecting.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return feecting.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return feecting.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.Features.Logger = true
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg feecting.Config) {
	v.SetDefault("parser.locale", cfg.Parser.Locale)
	v.SetDefault("parser.cover_prefix", cfg.Parser.CoverPrefix)
	v.SetDefault("parser.max_depth", cfg.Parser.MaxDepth)
	v.SetDefault("parser.max_text_bytes", cfg.Parser.MaxTextBytes)
	v.SetDefault("jobs.stagger", cfg.Jobs.Stagger)
	v.SetDefault("jobs.timeout", cfg.Jobs.Timeout)
	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.max_bytes", cfg.Fetch.MaxBytes)
	v.SetDefault("responder.kind", cfg.Responder.Kind)
	v.SetDefault("responder.endpoint", cfg.Responder.Endpoint)
	v.SetDefault("responder.timeout", cfg.Responder.Timeout)
	v.SetDefault("audit.enabled", cfg.Audit.Enabled)
	v.SetDefault("audit.driver", cfg.Audit.Driver)
	v.SetDefault("audit.dsn", cfg.Audit.DSN)
	v.SetDefault("sanitize.enabled", cfg.Sanitize.Enabled)
	v.SetDefault("sanitize.policy", cfg.Sanitize.Policy)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("features.audit", cfg.Features.Audit)
	v.SetDefault("features.logger", cfg.Features.Logger)
}
