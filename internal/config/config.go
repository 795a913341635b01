package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoslab/internal/coerce"
)

const (
	DefaultSystem     = "lorenz"
	DefaultSteps      = 1000
	DefaultIntegrator = "euler"
	DefaultPrecision  = 6
	DefaultDataDir    = "runs"
	DefaultAddr       = ":8080"
	DefaultMaxSteps   = 1_000_000

	DefaultReservoir      = 500
	DefaultSpectralRadius = 0.9
	DefaultLeak           = 0.3
	DefaultWashout        = 100
	DefaultRidge          = 1e-6
	DefaultSeed           = 42
	DefaultForecastSteps  = 200

	DefaultForecastMethod = "esn"
	DefaultHidden         = 16
	DefaultIterations     = 100
)

// Config is a run description. Params and InitialState hold raw values
// exactly as decoded; they are normalized by the coercion layer when the
// run starts, so a config file can never make a run fail.
type Config struct {
	System       string         `yaml:"system"`
	N            any            `yaml:"n"`
	Params       map[string]any `yaml:"params,omitempty"`
	InitialState any            `yaml:"initial_state,omitempty"`
	Integrator   string         `yaml:"integrator"`
	Precision    int            `yaml:"precision"`
	DataDir      string         `yaml:"data_dir"`
	Server       ServerConfig   `yaml:"server"`
	Forecast     ForecastConfig `yaml:"forecast"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxN bounds the trajectory length a single request may ask for.
	MaxN int `yaml:"max_n"`
}

type ForecastConfig struct {
	// Method selects the model: "esn" or "node".
	Method         string  `yaml:"method"`
	Reservoir      int     `yaml:"reservoir"`
	SpectralRadius float64 `yaml:"spectral_radius"`
	Leak           float64 `yaml:"leak"`
	Washout        int     `yaml:"washout"`
	Ridge          float64 `yaml:"ridge"`
	Seed           int64   `yaml:"seed"`
	Steps          int     `yaml:"steps"`
	Hidden         int     `yaml:"hidden"`
	Iterations     int     `yaml:"iterations"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     DefaultSystem,
		N:          DefaultSteps,
		Integrator: DefaultIntegrator,
		Precision:  DefaultPrecision,
		DataDir:    DefaultDataDir,
		Server: ServerConfig{
			Addr: DefaultAddr,
			MaxN: DefaultMaxSteps,
		},
		Forecast: ForecastConfig{
			Method:         DefaultForecastMethod,
			Reservoir:      DefaultReservoir,
			SpectralRadius: DefaultSpectralRadius,
			Leak:           DefaultLeak,
			Washout:        DefaultWashout,
			Ridge:          DefaultRidge,
			Seed:           DefaultSeed,
			Steps:          DefaultForecastSteps,
			Hidden:         DefaultHidden,
			Iterations:     DefaultIterations,
		},
	}
}

// Load reads a YAML config. Fields missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Steps is the coerced trajectory length.
func (c *Config) Steps() int {
	return coerce.Count(c.N)
}

// Clone returns a copy that shares no maps with c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]any, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
