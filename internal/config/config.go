package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RADIOCLUB"

// DefaultTimeZone is the zone the club's calendar follows.
const DefaultTimeZone = "Europe/Madrid"

// AppConfig gathers the settings needed to run the site.
type AppConfig struct {
	ListenAddr        string     `mapstructure:"listen_addr"`
	Port              string     `mapstructure:"port"`
	DatabasePath      string     `mapstructure:"database_path"`
	SessionSecret     string     `mapstructure:"session_secret"`
	GinMode           string     `mapstructure:"gin_mode"`
	LogLevel          string     `mapstructure:"log_level"`
	UploadDir         string     `mapstructure:"upload_dir"`
	UploadURLPath     string     `mapstructure:"upload_url_path"`
	SuperRootUserName string     `mapstructure:"super_root_user_name"`
	SuperRootPassword string     `mapstructure:"super_root_password"`
	SiteBaseURL       string     `mapstructure:"site_base_url"`
	BlogPageSize      int        `mapstructure:"blog_page_size"`
	GalleryPageSize   int        `mapstructure:"gallery_page_size"`
	TimeZone          string     `mapstructure:"time_zone"`
	Seed              SeedConfig `mapstructure:"seed"`
	SMTP              SMTPConfig `mapstructure:"smtp"`
}

// SeedConfig holds the default admin account created by the seed command.
type SeedConfig struct {
	AdminUsername string `mapstructure:"admin_username"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// SMTPConfig configures outgoing mail. An empty Host logs mails instead of sending them.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	TLS      string `mapstructure:"tls"`
	From     string `mapstructure:"from"`
}

// legacyEnv maps config keys to the unprefixed variable names older deployments use.
var legacyEnv = map[string]string{
	"listen_addr":          "LISTEN_ADDR",
	"port":                 "PORT",
	"database_path":        "DATABASE_PATH",
	"session_secret":       "SESSION_SECRET",
	"gin_mode":             "GIN_MODE",
	"upload_dir":           "UPLOAD_DIR",
	"upload_url_path":      "UPLOAD_URL_PATH",
	"super_root_user_name": "SUPER_ROOT_USER_NAME",
	"super_root_password":  "SUPER_ROOT_PASSWORD",
	"site_base_url":        "SITE_BASE_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", "")
	v.SetDefault("port", "8080")
	v.SetDefault("database_path", "radioclub.db")
	v.SetDefault("session_secret", "radioclub-dev-secret")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("upload_dir", "media")
	v.SetDefault("upload_url_path", "/media")
	v.SetDefault("super_root_user_name", "")
	v.SetDefault("super_root_password", "")
	v.SetDefault("site_base_url", "http://localhost:8080")
	v.SetDefault("blog_page_size", 9)
	v.SetDefault("gallery_page_size", 12)
	v.SetDefault("time_zone", DefaultTimeZone)

	v.SetDefault("seed.admin_username", "admin")
	v.SetDefault("seed.admin_email", "admin@ea1rkv.es")
	v.SetDefault("seed.admin_password", "admin")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.tls", "starttls")
	v.SetDefault("smtp.from", "web@ea1rkv.es")
}

// Load reads defaults, the optional config file and the environment, in that order of precedence.
// An empty configFile looks for radioclub.yaml in the working directory and tolerates its absence.
func Load(configFile string) (AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("radioclub")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(key)
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return AppConfig{}, fmt.Errorf("bind env %s: %w", legacy, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize()
	if _, err := cfg.Location(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// DefaultLocation loads DefaultTimeZone.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Location resolves TimeZone. An empty TimeZone means DefaultTimeZone.
func (c AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		return DefaultLocation(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", name, err)
	}
	return loc, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "8080"
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = ":" + c.Port
	}
	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	if c.UploadURLPath == "/" {
		c.UploadURLPath = "/media"
	}
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
	if c.BlogPageSize <= 0 {
		c.BlogPageSize = 9
	}
	if c.GalleryPageSize <= 0 {
		c.GalleryPageSize = 12
	}
	c.SMTP.TLS = strings.ToLower(strings.TrimSpace(c.SMTP.TLS))
	c.TimeZone = strings.TrimSpace(c.TimeZone)
	if c.TimeZone == "" {
		c.TimeZone = DefaultTimeZone
	}
}
