package cfg

type Cfg struct {
	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Application configuration
	SourcesFile   string
	SnapshotFile  string
	Port          string
	Schedule      string
	FetchDelay    int // milliseconds between source requests
	SourceTimeout int // seconds
	CollectionTTL int // hours
	ItemTTL       int // hours
	MetadataTTL   int // hours
	ClientTimeout int // seconds
	APIAccessKey  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
