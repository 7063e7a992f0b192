package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	SourceFile = "file"
	SourceDB   = "db"
)

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	Source        string `yaml:"source"`
	NetworkFile   string `yaml:"network_file"`
	NetworkName   string `yaml:"network_name"`
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	StrictWeights bool   `yaml:"strict_weights"`
	CacheCapacity int    `yaml:"cache_capacity"`
	LogLevel      string `yaml:"log_level"`
	Development   bool   `yaml:"development"`
}

func Default() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		Source:        SourceFile,
		NetworkFile:   "metro.csv",
		NetworkName:   "default",
		Driver:        "mysql",
		CacheCapacity: 2048,
		LogLevel:      "info",
	}
}

// Flags holds command-line overrides. Only flags the user actually set are
// applied by Load.
type Flags struct {
	fs  *pflag.FlagSet
	val ServerConfig
}

// BindFlags registers the server flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()
	fs.StringVar(&f.val.Addr, "addr", d.Addr, "HTTP bind address")
	fs.StringVar(&f.val.Source, "source", d.Source, "where the network comes from: file or db")
	fs.StringVar(&f.val.NetworkFile, "network", d.NetworkFile, "network description file")
	fs.StringVar(&f.val.NetworkName, "network-name", d.NetworkName, "network name in the database")
	fs.StringVar(&f.val.Driver, "driver", d.Driver, "database driver: mysql or sqlite")
	fs.StringVar(&f.val.DSN, "dsn", d.DSN, "database DSN")
	fs.BoolVar(&f.val.StrictWeights, "strict-weights", d.StrictWeights, "reject unparsable weights instead of treating them as no connection")
	fs.IntVar(&f.val.CacheCapacity, "cache-capacity", d.CacheCapacity, "route cache entries")
	return f
}

// Load resolves the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment, then flags that were set.
func Load(path string, flags *Flags) (ServerConfig, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if flags != nil {
		flags.apply(&cfg)
	}
	return cfg, nil
}

func applyEnv(cfg *ServerConfig) error {
	// DB_DSN is the older name, METRONAV_DSN wins when both are set.
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DSN = v
	}
	strs := map[string]*string{
		"METRONAV_ADDR":         &cfg.Addr,
		"METRONAV_SOURCE":       &cfg.Source,
		"METRONAV_NETWORK":      &cfg.NetworkFile,
		"METRONAV_NETWORK_NAME": &cfg.NetworkName,
		"METRONAV_DRIVER":       &cfg.Driver,
		"METRONAV_DSN":          &cfg.DSN,
		"METRONAV_LOG_LEVEL":    &cfg.LogLevel,
	}
	for k, dst := range strs {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("METRONAV_STRICT_WEIGHTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: METRONAV_STRICT_WEIGHTS: %w", err)
		}
		cfg.StrictWeights = b
	}
	return nil
}

// apply copies flags marked Changed. cobra parses persistent flags through
// the subcommand's flag set, so Visit on ours would miss them.
func (f *Flags) apply(cfg *ServerConfig) {
	f.fs.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		switch fl.Name {
		case "addr":
			cfg.Addr = f.val.Addr
		case "source":
			cfg.Source = f.val.Source
		case "network":
			cfg.NetworkFile = f.val.NetworkFile
		case "network-name":
			cfg.NetworkName = f.val.NetworkName
		case "driver":
			cfg.Driver = f.val.Driver
		case "dsn":
			cfg.DSN = f.val.DSN
		case "strict-weights":
			cfg.StrictWeights = f.val.StrictWeights
		case "cache-capacity":
			cfg.CacheCapacity = f.val.CacheCapacity
		}
	})
}

// Validate checks combinations Load cannot catch.
func (c ServerConfig) Validate() error {
	var errs []error
	switch c.Source {
	case SourceFile:
		if c.NetworkFile == "" {
			errs = append(errs, errors.New("config: source=file needs a network file"))
		}
	case SourceDB:
		if c.DSN == "" {
			errs = append(errs, errors.New("config: source=db needs a DSN"))
		}
		if c.NetworkName == "" {
			errs = append(errs, errors.New("config: source=db needs a network name"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown source %q", c.Source))
	}
	if c.Driver != "mysql" && c.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("config: unknown driver %q", c.Driver))
	}
	if c.CacheCapacity < 0 {
		errs = append(errs, errors.New("config: cache capacity cannot be negative"))
	}
	return errors.Join(errs...)
}
