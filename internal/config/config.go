// Package config loads datalake settings from defaults, the YAML config file,
// OCD_DTL_ environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

// EnvPrefix prefixes every environment variable read by datalake.
const EnvPrefix = "OCD_DTL"

// Setting keys.
const (
	KeyEnv                    = "env"
	KeyBaseURL                = "base_url"
	KeyQuotaTime              = "quota_time"
	KeyRequestsPerQuotaTime   = "requests_per_quota_time"
	KeyMaxBulkSearchTime      = "max_bulk_search_time"
	KeyMaxBulkThreatsTime     = "max_bulk_threats_time"
	KeyMaxBackOffTime         = "max_back_off_time"
	KeyMaxBulkThreatsInFlight = "max_bulk_threats_in_flight"
	KeyRetryBudget            = "retry_budget"
	KeyHTTPTimeout            = "http_timeout"
	KeyHTTPRequestsPerSecond  = "http_requests_per_second"
	KeyHTTPBurst              = "http_burst"
	KeyInsecure               = "insecure"
	KeyUsername               = "username"
	KeyPassword               = "password"
	KeyLongTermToken          = "longterm_token"
	KeyLogLevel               = "log_level"
	KeyLogFormat              = "log_format"
)

const (
	EnvProd    = "prod"
	EnvPreprod = "preprod"

	maskedValue = "********"
)

//nolint:gochecknoglobals // environment to API root mapping
var baseURLs = map[string]string{
	EnvProd:    "https://datalake.cert.orangecyberdefense.com/api/v2/",
	EnvPreprod: "https://ti.extranet.mrti-center.com/api/v2/",
}

type option struct {
	key     string
	value   any
	comment string
}

//nolint:gochecknoglobals // ordered default table, also used to comment rendered files
var options = []option{
	{KeyEnv, EnvProd, "Datalake environment: prod or preprod."},
	{KeyBaseURL, "", "Overrides the environment API root when set."},
	{KeyQuotaTime, 1, "Rate limiter window in seconds."},
	{KeyRequestsPerQuotaTime, 5, "Calls allowed per endpoint family within one window."},
	{KeyMaxBulkSearchTime, 3600, "Seconds to wait for a bulk search task."},
	{KeyMaxBulkThreatsTime, 600, "Seconds to wait for a bulk threat creation task."},
	{KeyMaxBackOffTime, 120, "Ceiling, in seconds, of the delay between two task polls."},
	{KeyMaxBulkThreatsInFlight, 10, "Threat creation tasks outstanding at once."},
	{KeyRetryBudget, 3, "Attempts per request before giving up."},
	{KeyHTTPTimeout, "30s", "Timeout of a single HTTP request."},
	{KeyHTTPRequestsPerSecond, 10.0, "Transport-level request rate."},
	{KeyHTTPBurst, 20, "Transport-level burst size."},
	{KeyInsecure, false, "Skip TLS certificate verification."},
	{KeyUsername, "", "Account email. Prefer OCD_DTL_USERNAME."},
	{KeyPassword, "", "Account password. Prefer OCD_DTL_PASSWORD or the interactive prompt."},
	{KeyLongTermToken, "", "Long-term token, used instead of username and password when set."},
	{KeyLogLevel, "info", "debug, info, warn or error."},
	{KeyLogFormat, "text", "text or json."},
}

// Settings is the effective configuration.
type Settings struct {
	Env                    string        `mapstructure:"env"                        yaml:"env"`
	BaseURL                string        `mapstructure:"base_url"                   yaml:"base_url"`
	QuotaTime              int           `mapstructure:"quota_time"                 yaml:"quota_time"`
	RequestsPerQuotaTime   int           `mapstructure:"requests_per_quota_time"    yaml:"requests_per_quota_time"`
	MaxBulkSearchTime      int           `mapstructure:"max_bulk_search_time"       yaml:"max_bulk_search_time"`
	MaxBulkThreatsTime     int           `mapstructure:"max_bulk_threats_time"      yaml:"max_bulk_threats_time"`
	MaxBackOffTime         int           `mapstructure:"max_back_off_time"          yaml:"max_back_off_time"`
	MaxBulkThreatsInFlight int           `mapstructure:"max_bulk_threats_in_flight" yaml:"max_bulk_threats_in_flight"`
	RetryBudget            int           `mapstructure:"retry_budget"               yaml:"retry_budget"`
	HTTPTimeout            time.Duration `mapstructure:"http_timeout"               yaml:"http_timeout"`
	HTTPRequestsPerSecond  float64       `mapstructure:"http_requests_per_second"   yaml:"http_requests_per_second"`
	HTTPBurst              int           `mapstructure:"http_burst"                 yaml:"http_burst"`
	Insecure               bool          `mapstructure:"insecure"                   yaml:"insecure"`
	Username               string        `mapstructure:"username"                   yaml:"username"`
	Password               string        `mapstructure:"password"                   yaml:"password"`
	LongTermToken          string        `mapstructure:"longterm_token"             yaml:"longterm_token"`
	LogLevel               string        `mapstructure:"log_level"                  yaml:"log_level"`
	LogFormat              string        `mapstructure:"log_format"                 yaml:"log_format"`
}

// New returns a viper instance carrying every default and reading OCD_DTL_ variables.
// configFile overrides the default location under home.
func New(configFile, home string) *viper.Viper {
	v := withDefaults()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(DefaultDir(home))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func withDefaults() *viper.Viper {
	v := viper.New()
	for _, opt := range options {
		v.SetDefault(opt.key, opt.value)
	}
	return v
}

// DefaultDir returns the directory holding the config file.
func DefaultDir(home string) string {
	return strings.TrimRight(home, "/") + "/.config/datalake"
}

// Read loads the config file. A missing file at the default location is not an error.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return apperrors.NewConfigurationError("config_file", v.ConfigFileUsed(), "failed to read config file", err)
}

// Load decodes and validates the effective settings.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, apperrors.NewConfigurationError("", "", "failed to decode settings", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	s, err := Load(withDefaults())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in defaults: %v", err))
	}
	return *s
}

// Validate checks every setting.
func (s *Settings) Validate() error {
	if s.BaseURL == "" {
		if _, ok := baseURLs[s.Env]; !ok {
			return apperrors.NewConfigurationError(KeyEnv, s.Env, "env must be one of: "+strings.Join(Envs(), ", "), nil)
		}
	} else if u, err := url.Parse(s.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfigurationError(KeyBaseURL, s.BaseURL, "base URL must be an absolute URL", err)
	}

	positive := []struct {
		key   string
		value int
	}{
		{KeyQuotaTime, s.QuotaTime},
		{KeyRequestsPerQuotaTime, s.RequestsPerQuotaTime},
		{KeyMaxBulkSearchTime, s.MaxBulkSearchTime},
		{KeyMaxBulkThreatsTime, s.MaxBulkThreatsTime},
		{KeyMaxBackOffTime, s.MaxBackOffTime},
		{KeyMaxBulkThreatsInFlight, s.MaxBulkThreatsInFlight},
		{KeyRetryBudget, s.RetryBudget},
		{KeyHTTPBurst, s.HTTPBurst},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return apperrors.NewConfigurationError(p.key, strconv.Itoa(p.value), "must be positive", nil)
		}
	}

	if s.HTTPTimeout <= 0 {
		return apperrors.NewConfigurationError(KeyHTTPTimeout, s.HTTPTimeout.String(), "must be positive", nil)
	}
	if s.HTTPRequestsPerSecond <= 0 {
		return apperrors.NewConfigurationError(KeyHTTPRequestsPerSecond,
			strconv.FormatFloat(s.HTTPRequestsPerSecond, 'f', -1, 64), "must be positive", nil)
	}
	if !slices.Contains([]string{"text", "json"}, s.LogFormat) {
		return apperrors.NewConfigurationError(KeyLogFormat, s.LogFormat, "log format must be text or json", nil)
	}
	return nil
}

// Envs lists the known environments.
func Envs() []string {
	envs := make([]string, 0, len(baseURLs))
	for env := range baseURLs {
		envs = append(envs, env)
	}
	slices.Sort(envs)
	return envs
}

// APIRoot returns the base URL every endpoint path is joined to.
func (s *Settings) APIRoot() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/") + "/"
	}
	return baseURLs[s.Env]
}

// QuotaPeriod is the rate limiter window.
func (s *Settings) QuotaPeriod() time.Duration {
	return time.Duration(s.QuotaTime) * time.Second
}

// BulkSearchTimeout bounds the wait for a bulk search task.
func (s *Settings) BulkSearchTimeout() time.Duration {
	return time.Duration(s.MaxBulkSearchTime) * time.Second
}

// BulkThreatsTimeout bounds the wait for a bulk threat creation task.
func (s *Settings) BulkThreatsTimeout() time.Duration {
	return time.Duration(s.MaxBulkThreatsTime) * time.Second
}

// BackOffCeiling caps the delay between two task polls.
func (s *Settings) BackOffCeiling() time.Duration {
	return time.Duration(s.MaxBackOffTime) * time.Second
}

// Credentials returns the configured credentials. A long-term token wins over
// username and password.
func (s *Settings) Credentials() domain.Credentials {
	return domain.Credentials{
		Username:      s.Username,
		Password:      s.Password,
		LongTermToken: s.LongTermToken,
	}
}

// Masked returns a copy with secrets replaced.
func (s Settings) Masked() Settings {
	if s.Password != "" {
		s.Password = maskedValue
	}
	if s.LongTermToken != "" {
		s.LongTermToken = maskedValue
	}
	return s
}

// Render encodes s as a YAML document with every key commented.
func Render(s Settings) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}

	comments := make(map[string]string, len(options))
	for _, opt := range options {
		comments[opt.key] = opt.comment
	}

	// Mapping content alternates key and value nodes.
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i]
		key.HeadComment = comments[key.Value]
	}
	doc.HeadComment = "datalake configuration. Environment variables prefixed " + EnvPrefix + "_ override these values."

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return out, nil
}
