package config

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BaseURL  string `yaml:"base_url"`
	SiteName string `yaml:"site_name"`

	HTTP struct {
		Address       string `yaml:"address"`
		TrustProxy    bool   `yaml:"trust_proxy"` // honor X-Forwarded-For / X-Real-IP
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"http"`

	Inquiries struct {
		Limit  int           `yaml:"limit"` // submissions per client per window
		Window time.Duration `yaml:"window"`
	} `yaml:"inquiries"`

	Data DataConfig `yaml:"data"`

	Openings struct {
		Buckets    map[string]string `yaml:"buckets"`    // display location key -> storage bucket
		Recognized []string          `yaml:"recognized"` // storage buckets present in openings.json
	} `yaml:"openings"`

	StructuredData StructuredDataConfig `yaml:"structured_data"`

	Database DatabaseConfig `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
		Format string `yaml:"format"` // "text" | "json"
	} `yaml:"logging"`

	Security struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"security"`

	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		GroupChatID string `yaml:"group_chat_id"`
	} `yaml:"telegram"`
}

// DataConfig points at the three site datasets. Each entry is a file path or
// an http(s) URL.
type DataConfig struct {
	Config   string        `yaml:"config"`
	Openings string        `yaml:"openings"`
	Content  string        `yaml:"content"`
	Timeout  time.Duration `yaml:"timeout"`
	Watch    bool          `yaml:"watch"`
}

type StructuredDataConfig struct {
	BaseURL      string `yaml:"base_url"`
	Type         string `yaml:"type"`
	OpeningHours string `yaml:"opening_hours"`
	PriceRange   string `yaml:"price_range"`
	AreaServed   string `yaml:"area_served"`
	Credential   string `yaml:"credential"`
	Country      string `yaml:"country"`
}

type DatabaseConfig struct {
	Disabled bool   `yaml:"disabled"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"` // e.g. "disable" | "require"
}

func (c *Config) Defaults() {
	if c.SiteName == "" {
		c.SiteName = "Beginnings Schools"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Inquiries.Limit == 0 {
		c.Inquiries.Limit = 5
	}
	if c.Inquiries.Window == 0 {
		c.Inquiries.Window = 10 * time.Minute
	}
	if c.Data.Config == "" {
		c.Data.Config = "data/site-config.json"
	}
	if c.Data.Openings == "" {
		c.Data.Openings = "data/openings.json"
	}
	if c.Data.Content == "" {
		c.Data.Content = "data/content.json"
	}
	if c.Data.Timeout == 0 {
		c.Data.Timeout = 10 * time.Second
	}
	if len(c.Openings.Buckets) == 0 {
		c.Openings.Buckets = map[string]string{
			"queenAnne":   "queenAnne",
			"capitolHill": "capitolHill",
		}
	}
	if len(c.Openings.Recognized) == 0 {
		c.Openings.Recognized = []string{"queenAnne", "capitolHill"}
	}
	if c.StructuredData.BaseURL == "" {
		c.StructuredData.BaseURL = c.BaseURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Database.Host == "" {
		c.Database.Host = "db"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "beginnings"
	}
	if c.Database.Name == "" {
		c.Database.Name = "beginnings"
	}
	if c.Database.Password == "" {
		c.Database.Password = "password"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Security.JWTSecret == "" {
		c.Security.JWTSecret = "change-me"
	}
}

func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Data.Config) == "" || strings.TrimSpace(c.Data.Openings) == "" || strings.TrimSpace(c.Data.Content) == "" {
		errs = append(errs, "data.{config,openings,content} must be set")
	}
	if c.Data.Timeout < 0 {
		errs = append(errs, "data.timeout must not be negative")
	}
	if c.Inquiries.Limit < 0 || c.Inquiries.Window < 0 {
		errs = append(errs, "inquiries.{limit,window} must not be negative")
	}
	recognized := make(map[string]bool, len(c.Openings.Recognized))
	for _, r := range c.Openings.Recognized {
		recognized[r] = true
	}
	for k, v := range c.Openings.Buckets {
		if !recognized[v] {
			errs = append(errs, "openings.buckets."+k+" maps to unrecognized bucket "+strconv.Quote(v))
		}
	}
	// DB must have either URL or (Host, User, Name)
	if !c.Database.Disabled && c.Database.URL == "" {
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, "database.url or database.{host,user,name} must be set")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// AppURL returns a postgres connection URL for the application DB.
func (d *DatabaseConfig) AppURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return "", errors.New("database config incomplete: need host, user, name or set url")
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
