// Package throttle counts failed end-user logins and bans a username once it
// accumulates too many failures inside a rolling window.
//
// Every failure increments a counter stored under
// "throttle_auth_failure:<username>" and pushes its expiry out by the window
// (30 minutes by default). A username is banned while its counter is above the
// limit (5 by default); the ban lifts on its own once no failure has been
// registered for a whole window, or immediately after Reset.
//
// Two stores are provided: MemoryStore for single-process deployments and
// tests, and RedisStore, which uses INCR and EXPIRE in one MULTI/EXEC so
// several processes share the same counters.
//
//	t := throttle.New(throttle.NewRedisStore(client))
//	if banned, _ := t.IsBanned(ctx, username); banned {
//		return ErrAuthenticationFailed
//	}
//	if !ok {
//		_, _ = t.RegisterFailure(ctx, username)
//	}
package throttle
