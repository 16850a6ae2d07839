package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyConfig     = "config"
	KeyPath       = "path"
	KeyPrefix     = "prefix"
	KeyFormat     = "format"
	KeyDurationMS = "duration_ms"
	KeyEntries    = "entries"
	KeyProblems   = "problems"
	KeyWarnings   = "warnings"
	KeyEvent      = "event"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Config(p string) slog.Attr       { return slog.String(KeyConfig, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Prefix(p string) slog.Attr       { return slog.String(KeyPrefix, p) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Problems(n int) slog.Attr        { return slog.Int(KeyProblems, n) }
func Warnings(n int) slog.Attr        { return slog.Int(KeyWarnings, n) }
func Event(op string) slog.Attr       { return slog.String(KeyEvent, op) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
