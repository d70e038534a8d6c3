package sl

import (
	"fmt"
	"log/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret keeps the first 5 characters of an api key for log lines
func Secret(some string) slog.Attr {
	r := "***"
	if len(some) > 5 {
		r = fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		r = "?"
	}
	return slog.Attr{
		Key:   "secret",
		Value: slog.StringValue(r),
	}
}

func Module(mod string) slog.Attr {
	return slog.Attr{
		Key:   "mod",
		Value: slog.StringValue(mod),
	}
}

// Text logs a possibly long value (prompt, url, data uri) cut to 50 runes.
func Text(key, value string) slog.Attr {
	r := []rune(value)
	if len(r) > 50 {
		value = string(r[:50]) + "..."
	}
	return slog.String(key, value)
}
