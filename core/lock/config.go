package lock

// Config holds configuration for the reconcile lock.
type Config struct {
	// RedisAddr enables the distributed lock when set (host:port).
	RedisAddr string `mapstructure:"redis_addr" default:""`
	// RedisPassword authenticates against Redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB selects the Redis database.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// Key is the Redis key guarding the inventory.
	Key string `mapstructure:"key" default:"stock-reconciler:lock"`
	// TTLSeconds bounds how long a crashed holder can keep the lock.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"60"`
}
