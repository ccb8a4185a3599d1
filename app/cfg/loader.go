package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Redis configuration
	RedisAddr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address (host:port)"`
	RedisPassword string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password (optional)"`
	RedisDB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`

	// Application configuration
	SourcesFile   string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file describing news sources and tag vocabularies"`
	SnapshotFile  string `long:"snapshot-file" env:"SNAPSHOT_FILE" default:"./snapshot.json" description:"Bundled static snapshot consumed by the client fallback chain"`
	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	Schedule      string `long:"schedule" env:"SCHEDULE" default:"@every 6h" description:"Cron spec for the automatic acquisition trigger"`
	FetchDelay    int    `long:"fetch-delay" env:"FETCH_DELAY" default:"1500" description:"Delay between source requests in milliseconds"`
	SourceTimeout int    `long:"source-timeout" env:"SOURCE_TIMEOUT" default:"20" description:"Per-source fetch timeout in seconds"`
	CollectionTTL int    `long:"collection-ttl" env:"COLLECTION_TTL" default:"24" description:"Merged collection TTL in hours"`
	ItemTTL       int    `long:"item-ttl" env:"ITEM_TTL" default:"72" description:"Per-item record TTL in hours"`
	MetadataTTL   int    `long:"metadata-ttl" env:"METADATA_TTL" default:"24" description:"Run metadata TTL in hours"`
	ClientTimeout int    `long:"client-timeout" env:"CLIENT_TIMEOUT" default:"25" description:"Client live-fetch timeout in seconds"`
	APIAccessKey  string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the manual trigger endpoint (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsbrief/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		RedisAddr:     raw.RedisAddr,
		RedisPassword: raw.RedisPassword,
		RedisDB:       raw.RedisDB,
		SourcesFile:   raw.SourcesFile,
		SnapshotFile:  raw.SnapshotFile,
		Port:          raw.Port,
		Schedule:      raw.Schedule,
		FetchDelay:    raw.FetchDelay,
		SourceTimeout: raw.SourceTimeout,
		CollectionTTL: raw.CollectionTTL,
		ItemTTL:       raw.ItemTTL,
		MetadataTTL:   raw.MetadataTTL,
		ClientTimeout: raw.ClientTimeout,
		APIAccessKey:  raw.APIAccessKey,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
