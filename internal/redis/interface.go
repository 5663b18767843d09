package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the redis surface the reference cache depends on. Single node,
// cluster and sentinel clients all satisfy it.
type Client interface {
	redis.UniversalClient
}

// Nil is returned by reads that find no key
const Nil = redis.Nil
