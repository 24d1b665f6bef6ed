// Package redis opens go-redis clients from a connection URL and verifies
// them with PING, retrying with exponential backoff before giving up.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
