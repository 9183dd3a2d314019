// Package redis wraps go-redis for tripcart. TypedStore keeps JSON records
// under a key prefix and implements store.Store, which lets the identity
// mirror live in Redis:
//
//	client, _ := redis.New(cfg, log)
//	mirror := redis.NewTypedStore[session.IdentityMirror](client, cfg.KeyPrefix)
package redis
