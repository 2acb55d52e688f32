// Package smaug wires the token and tenant-configuration services together.
//
// A Service owns the client store, the token store, the configuration
// resolver, the authentication router and the OAuth model, each built from
// the backend named in Config. Backends are chosen from a fixed registry when
// the Service is created; there is no runtime plugin loading.
//
// Basic usage:
//
//	var cfg smaug.Config
//	if err := smaug.LoadConfig(&cfg); err != nil {
//		return err
//	}
//	svc, err := smaug.New(ctx, cfg, smaug.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	user, err := svc.Model.GetUser(ctx, clientID, username, password)
//	...
//	tok, err := svc.Model.IssueToken(ctx, clientID, user)
//	...
//	cfg, err := svc.Resolver.ResolveToken(ctx, tok.Token)
//
// Health probes every store and remote authentication backend concurrently
// and reports each result.
package smaug
