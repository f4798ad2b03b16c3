package config

import (
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/uwsgicfg/internal/inifile"
)

// EnvPrefix is the prefix for environment overrides, e.g. UWSGICFG_PROCESSES.
const EnvPrefix = "UWSGICFG"

// StaticMap is one static-map entry: a URL mount point exposing a
// filesystem path verbatim.
type StaticMap struct {
	Mount string
	Path  string
}

func (m StaticMap) String() string {
	return m.Mount + "=" + m.Path
}

// ParseStaticMap parses the uwsgi "mount=path" form.
func ParseStaticMap(s string) (StaticMap, error) {
	mount, path, found := strings.Cut(s, "=")
	if !found {
		return StaticMap{}, fmt.Errorf("static-map %q: want mount=path", s)
	}

	return StaticMap{Mount: mount, Path: path}, nil
}

// Config is the typed deployment record. Field names follow the uwsgi
// option names they are decoded from.
type Config struct {
	HTTP   string `mapstructure:"http"`
	Socket string `mapstructure:"socket"`

	Chdir    string `mapstructure:"chdir"`
	WSGIFile string `mapstructure:"wsgi-file"`
	Module   string `mapstructure:"module"`
	Callable string `mapstructure:"callable"`

	Master    bool `mapstructure:"master"`
	Processes int  `mapstructure:"processes"`
	Threads   int  `mapstructure:"threads"`

	Harakiri    int `mapstructure:"harakiri"`
	MaxRequests int `mapstructure:"max-requests"`
	BufferSize  int `mapstructure:"buffer-size"`
	Listen      int `mapstructure:"listen"`

	Vacuum        bool `mapstructure:"vacuum"`
	DieOnTerm     bool `mapstructure:"die-on-term"`
	EnableThreads bool `mapstructure:"enable-threads"`
	LazyApps      bool `mapstructure:"lazy-apps"`

	Pidfile string `mapstructure:"pidfile"`
	Logto   string `mapstructure:"logto"`
	UID     string `mapstructure:"uid"`
	GID     string `mapstructure:"gid"`

	StaticMaps []StaticMap `mapstructure:"static-map"`
}

// knownKeys are the document keys the typed record covers. uwsgi accepts
// hundreds of options; anything else is reported as advisory, not an error.
var knownKeys = map[string]struct{}{
	"http": {}, "socket": {}, "chdir": {}, "wsgi-file": {}, "module": {},
	"callable": {}, "master": {}, "processes": {}, "threads": {},
	"harakiri": {}, "max-requests": {}, "buffer-size": {}, "listen": {},
	"vacuum": {}, "die-on-term": {}, "enable-threads": {}, "lazy-apps": {},
	"pidfile": {}, "logto": {}, "uid": {}, "gid": {}, "static-map": {},
}

// Load reads, expands, decodes and validates the document at path.
func Load(path string) (*Config, error) {
	doc, err := inifile.Load(path)
	if err != nil {
		slog.Error("failed to read deployment document", slog.String("error", err.Error()))
		return nil, err
	}

	return FromDocument(doc)
}

// FromDocument decodes and validates an already-parsed document. %(key)
// placeholders are resolved first.
func FromDocument(doc *inifile.Document) (*Config, error) {
	if err := doc.Expand(); err != nil {
		slog.Error("failed to expand placeholders", slog.String("error", err.Error()))
		return nil, err
	}

	v := viper.New()
	v.SetDefault("processes", 1)
	v.SetDefault("threads", 1)
	v.SetDefault("buffer-size", 4096)
	v.SetDefault("listen", 100)

	settings := make(map[string]interface{})
	for _, key := range doc.Keys() {
		if key == "static-map" {
			settings[key] = doc.Values(key)
			continue
		}

		value, _ := doc.Lookup(key)
		settings[key] = value
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeOptions()...); err != nil {
		slog.Error("failed to unmarshal configuration", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// UnknownKeys lists document keys the typed record does not cover, in
// document order.
func UnknownKeys(doc *inifile.Document) []string {
	var unknown []string

	for _, key := range doc.Keys() {
		if _, ok := knownKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}

	return unknown
}

// HarakiriTimeout is the stuck-request watchdog as a duration; zero means
// the watchdog is disabled.
func (c *Config) HarakiriTimeout() time.Duration {
	return time.Duration(c.Harakiri) * time.Second
}

func decodeOptions() []viper.DecoderConfigOption {
	return []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			staticMapHook(),
			uwsgiBoolHook(),
		)),
		func(dc *mapstructure.DecoderConfig) {
			dc.WeaklyTypedInput = true
		},
	}
}

func staticMapHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(StaticMap{}) {
			return data, nil
		}

		return ParseStaticMap(data.(string))
	}
}

// uwsgi accepts a wider boolean vocabulary than strconv.ParseBool.
func uwsgiBoolHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}

		switch strings.ToLower(strings.TrimSpace(data.(string))) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off", "":
			return false, nil
		default:
			return nil, fmt.Errorf("invalid boolean %q", data.(string))
		}
	}
}

// Validate checks the record against the deployment rules: an endpoint must
// exist, counts must be sane, static maps must be well formed.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HTTP,
			validation.Required.When(c.Socket == "").Error("either http or socket must be set"),
			validation.By(validateHostPort),
		),
		validation.Field(&c.Socket,
			validation.By(validateSocket),
		),
		validation.Field(&c.Processes,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&c.Threads,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&c.Harakiri,
			validation.Min(0),
		),
		validation.Field(&c.MaxRequests,
			validation.Min(0),
		),
		validation.Field(&c.BufferSize,
			validation.Min(0),
		),
		validation.Field(&c.Listen,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&c.Chdir,
			validation.By(validateAbsPath),
		),
		validation.Field(&c.WSGIFile,
			validation.By(validateAbsPath),
		),
		validation.Field(&c.Pidfile,
			validation.By(validateAbsPath),
		),
		validation.Field(&c.StaticMaps,
			validation.Each(validation.By(validateStaticMap)),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

// A socket is either a unix path (absolute) or a host:port endpoint.
func validateSocket(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if addr == "" {
		return nil
	}

	if strings.HasPrefix(addr, "/") {
		return nil
	}

	return validateHostPort(addr)
}

func validateAbsPath(value interface{}) error {
	path, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if path == "" {
		return nil
	}

	if !filepath.IsAbs(path) {
		return validation.NewError("validation_relative_path", "must be an absolute path")
	}

	return nil
}

func validateStaticMap(value interface{}) error {
	sm, ok := value.(StaticMap)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a StaticMap")
	}

	if !strings.HasPrefix(sm.Mount, "/") {
		return validation.NewError("validation_invalid_mount", "mount point must start with /")
	}

	if !filepath.IsAbs(sm.Path) {
		return validation.NewError("validation_relative_path", "target must be an absolute path")
	}

	return nil
}
