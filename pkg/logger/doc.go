// Package logger builds log/slog loggers for the token and configuration
// services.
//
// New applies functional options on top of production-safe defaults (JSON,
// INFO, stdout) and wraps the handler in a decorator that:
//
//   - injects request-scoped attributes pulled from context by registered
//     ContextExtractor functions;
//   - masks attributes whose key names a credential (password, secret, pin,
//     token) so they never reach the output.
//
// Attribute helpers (ClientID, Username, Backend, Error, Errors) keep key names
// consistent across packages.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment("production", "smaug"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "token issued", logger.ClientID(id), logger.Username(user))
package logger
