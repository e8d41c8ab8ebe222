package config

// RedisConfig contains configuration for the Redis instance backing the
// session store and the one-shot disabled-account markers.
type RedisConfig struct {
	URI      string `env:"URI"        envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"   envDefault:""`
	DB       int    `env:"DB"         envDefault:"0"`

	// KeyPrefix namespaces every key the portal writes.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"fyp:"`
}
