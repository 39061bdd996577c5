// Package config loads pkgshelf configuration with Viper and builds the
// process logger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/HerbHall/pkgshelf/internal/builder"
	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/internal/server"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

// EnvPrefix prefixes environment overrides: PKGSHELF_SERVER_PORT=9090.
const EnvPrefix = "PKGSHELF"

// Config is the full pkgshelf configuration.
type Config struct {
	Server  server.Config `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Display DisplayConfig `mapstructure:"display"`
	Build   BuildConfig   `mapstructure:"build"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeedConfig adds the startup feed to the fetch settings.
type FeedConfig struct {
	// URL is loaded at startup when set.
	URL         string `mapstructure:"url"`
	feed.Config `mapstructure:",squash"`
}

// DisplayConfig controls how values are rendered.
type DisplayConfig struct {
	Locale string `mapstructure:"locale"`
}

// BuildConfig holds the feed builder paths and the bitable source.
type BuildConfig struct {
	DB     string               `mapstructure:"db"`
	Output string               `mapstructure:"output"`
	Feishu builder.FeishuConfig `mapstructure:"feishu"`
}

// Load reads configuration from file and environment variables.
// A missing config file is not an error.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pkgshelf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/pkgshelf")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.rate_limit.rps", 50)
	v.SetDefault("server.rate_limit.burst", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	fd := feed.DefaultConfig()
	v.SetDefault("feed.url", "")
	v.SetDefault("feed.allowed_hosts", []string{})
	v.SetDefault("feed.follow_cross_origin_redirects", fd.FollowCrossOriginRedirects)
	v.SetDefault("feed.timeout", "0s")
	v.SetDefault("feed.user_agent", fd.UserAgent)

	v.SetDefault("display.locale", catalog.DefaultLocale)
	v.SetDefault("build.db", "apps.db")
	v.SetDefault("build.output", "")
	v.SetDefault("build.feishu.app_id", "")
	v.SetDefault("build.feishu.app_secret", "")
	v.SetDefault("build.feishu.app_token", "")
	v.SetDefault("build.feishu.table_id", "")
	v.SetDefault("build.feishu.view_id", "")
	v.SetDefault("build.feishu.base_url", "https://open.feishu.cn")
	v.SetDefault("build.feishu.timeout", "30s")
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
