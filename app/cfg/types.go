package cfg

type Cfg struct {
	// Application configuration
	Port         string
	FeedsFile    string
	APIAccessKey string

	// Cache configuration
	CacheBackend string
	RedisAddr    string
	SQLitePath   string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
