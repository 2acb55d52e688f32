package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under the key "error". Nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ClientID records the OAuth client identifier under the key "client_id".
func ClientID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("client_id", id)
}

// Username records an encoded tenant username under the key "username".
func Username(name string) slog.Attr {
	return slog.String("username", name)
}

// LibraryID records the library (tenant) identifier under the key "library_id".
func LibraryID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("library_id", id)
}

// Backend records a storage or authentication backend name under the key "backend".
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// RetryCount records the retry count under the key "retry_count".
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
