package cfg

type Cfg struct {
	// Upstream configuration
	APIBaseURL     string
	RequestTimeout int
	RateLimit      float64
	RateBurst      int

	// Application configuration
	Port           string
	BaseUrl        string
	SiteConfigPath string
	DBPath         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	WorkerCount    int
	APIAccessKey   string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
