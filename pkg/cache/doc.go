// Package cache provides a small generic TTL cache with in-memory and Redis
// backends behind one interface.
//
// The newsletter uses it to remember which (date, recipient) pairs already
// received a digest. Redis keeps that record across process runs; Memory only
// deduplicates within one process.
//
//	c := cache.NewMemory[string](cache.WithDefaultTTL(48 * time.Hour))
//	defer c.Close()
//
//	_ = c.Set(ctx, key, receiptID, 0)
//	sent, _ := c.Has(ctx, key)
package cache
