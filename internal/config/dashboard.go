package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DashboardConfig tunes the activity feed projection without redeploys.
type DashboardConfig struct {
	// AuditFetchLimit bounds how many audit events the projector reads.
	AuditFetchLimit int `mapstructure:"auditFetchLimit"`
	// SparseThreshold is the mapped-event count below which the projector
	// falls back to recent campaign records.
	SparseThreshold int `mapstructure:"sparseThreshold"`
	// DefaultLimit is the feed length when the caller does not specify one.
	DefaultLimit int `mapstructure:"defaultLimit"`
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		AuditFetchLimit: 20,
		SparseThreshold: 5,
		DefaultLimit:    10,
	}
}

// DashboardConfigHolder exposes the current dashboard config and hot-reloads
// it when the backing file changes.
type DashboardConfigHolder struct {
	current atomic.Value // holds DashboardConfig
}

func NewDashboardConfigHolder() (*DashboardConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("dashboard")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/leadflow/config") // Volume-mounted config
	v.AddConfigPath("/etc/leadflow")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("LEADFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultDashboardConfig()
		v.SetDefault("dashboard.auditFetchLimit", defaults.AuditFetchLimit)
		v.SetDefault("dashboard.sparseThreshold", defaults.SparseThreshold)
		v.SetDefault("dashboard.defaultLimit", defaults.DefaultLimit)
	}

	holder := &DashboardConfigHolder{}
	holder.store(readDashboardConfig(v))

	v.OnConfigChange(func(_ fsnotify.Event) {
		holder.store(readDashboardConfig(v))
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticDashboardConfigHolder returns a holder pinned to the given
// config, with no file watching. Useful for tests and tooling.
func NewStaticDashboardConfigHolder(cfg DashboardConfig) *DashboardConfigHolder {
	holder := &DashboardConfigHolder{}
	holder.store(cfg)
	return holder
}

// Get returns the current dashboard config.
func (h *DashboardConfigHolder) Get() DashboardConfig {
	value, ok := h.current.Load().(DashboardConfig)
	if !ok {
		return DefaultDashboardConfig()
	}
	return value
}

func (h *DashboardConfigHolder) store(cfg DashboardConfig) {
	h.current.Store(cfg)
}

func readDashboardConfig(v *viper.Viper) DashboardConfig {
	var cfg DashboardConfig
	if err := v.UnmarshalKey("dashboard", &cfg); err != nil {
		return DefaultDashboardConfig()
	}

	defaults := DefaultDashboardConfig()
	if cfg.AuditFetchLimit <= 0 {
		cfg.AuditFetchLimit = defaults.AuditFetchLimit
	}
	if cfg.SparseThreshold <= 0 {
		cfg.SparseThreshold = defaults.SparseThreshold
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaults.DefaultLimit
	}
	return cfg
}
