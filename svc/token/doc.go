// Package token stores the bearer tokens issued to clients.
//
// A token binds an opaque random string to a client id, an encoded tenant
// user id and an absolute expiry. Every Store implementation refuses to
// return an expired token, whether or not the backend has garbage-collected
// it yet:
//
//   - MemoryStore keeps tokens in maps and sweeps expired ones in the background.
//   - RedisStore writes a hash per token and lets Redis expire it (PEXPIREAT);
//     a per-user set supports bulk revocation.
//   - PostgresStore uses the tokens table and filters on expires at read time.
//   - MongoStore relies on a TTL index and filters on expires at read time.
//
// NewCachedStore puts a short-lived read cache in front of any Store. Revoking
// through the decorator drops the cached entry before returning.
package token
