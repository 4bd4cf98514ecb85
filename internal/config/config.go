package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultSyncInterval = time.Minute
	defaultManifestPath = "manifest.yaml"
	defaultJournalPath  = "identitysync.db"
	defaultMetricsAddr  = ":9090"
	defaultBackendKind  = "openstack"
)

type Config struct {
	SyncInterval time.Duration `yaml:"syncInterval"`
	ManifestPath string        `yaml:"manifestPath"`
	JournalPath  string        `yaml:"journalPath"`
	MetricsAddr  string        `yaml:"metricsAddr"`
	Log          Log           `yaml:"log"`
	Backend      Backend       `yaml:"backend"`
	Reconcile    Reconcile     `yaml:"reconcile"`
}

type Log struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type Backend struct {
	Kind        string `yaml:"kind"` // "openstack" or "fake"
	IdentityURL string `yaml:"identityUrl"`
	NetworkURL  string `yaml:"networkUrl"`
	Token       string `yaml:"token"`
}

type Reconcile struct {
	DryRun bool `yaml:"dryRun"`
}

func Load(path string) (*Config, error) {
	configFile := true
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("fail find config file, proceeding", "path", path)
		configFile = false
	}

	var cfg Config
	if configFile {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			slog.Default().Warn("fail close config file", "path", path, "error", err)
		}
	}

	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = defaultSyncInterval
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = defaultManifestPath
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = defaultJournalPath
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = defaultMetricsAddr
	}
	if cfg.Backend.Kind == "" {
		cfg.Backend.Kind = defaultBackendKind
	}

	// Set log defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Env == "" {
		cfg.Log.Env = "prod"
	}

	// Override from environment if set
	if token := os.Getenv("IDENTITY_SYNC_TOKEN"); token != "" {
		cfg.Backend.Token = token
	}
	if syncInterval := os.Getenv("IDENTITY_SYNC_INTERVAL"); syncInterval != "" {
		if interval, err := time.ParseDuration(syncInterval); err == nil {
			cfg.SyncInterval = interval
		} else {
			slog.Default().Warn("fail parse sync interval to duration from string", "interval", syncInterval, "error", err)
		}
	}
	if manifestPath := os.Getenv("IDENTITY_SYNC_MANIFEST"); manifestPath != "" {
		cfg.ManifestPath = manifestPath
	}
	if journalPath := os.Getenv("IDENTITY_SYNC_JOURNAL_PATH"); journalPath != "" {
		cfg.JournalPath = journalPath
	}
	if metricsAddr := os.Getenv("IDENTITY_SYNC_METRICS_ADDR"); metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if backendKind := os.Getenv("IDENTITY_SYNC_BACKEND"); backendKind != "" {
		cfg.Backend.Kind = backendKind
	}
	if identityURL := os.Getenv("IDENTITY_SYNC_IDENTITY_URL"); identityURL != "" {
		cfg.Backend.IdentityURL = identityURL
	}
	if networkURL := os.Getenv("IDENTITY_SYNC_NETWORK_URL"); networkURL != "" {
		cfg.Backend.NetworkURL = networkURL
	}
	if dryRun := os.Getenv("IDENTITY_SYNC_DRYRUN"); dryRun != "" {
		switch strings.ToLower(dryRun) {
		case "true":
			cfg.Reconcile.DryRun = true
		case "false":
			cfg.Reconcile.DryRun = false
		default:
			slog.Default().Warn("fail parse dryrun to bool from string", "dryrun", dryRun)
		}
	}
	if loglevel := os.Getenv("IDENTITY_SYNC_LOG_LEVEL"); loglevel != "" {
		cfg.Log.Level = loglevel
	}
	if logenv := os.Getenv("IDENTITY_SYNC_LOG_ENV"); logenv != "" {
		cfg.Log.Env = logenv
	}
	return &cfg, nil
}
