// Package redis connects to the Redis server that backs shared tenant caches.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if err := redis.Healthcheck(client)(ctx); err != nil {
//		// not healthy
//	}
//
// Connect retries the initial ping according to Config. Errors wrap the
// go-redis error with a sentinel from this package via errors.Join.
package redis
