package repository

// defaultShardCount spreads accounts over enough shards for typical loads.
const defaultShardCount = 8

// storeConfig collects construction-time settings for the ShardStore.
type storeConfig struct {
	shardCount int
}

// Option applies a configuration option to the ShardStore.
type Option func(*storeConfig)

// WithShardCount sets the number of shards.
func WithShardCount(count int) Option {
	return func(c *storeConfig) {
		if count > 0 {
			c.shardCount = count
		}
	}
}
