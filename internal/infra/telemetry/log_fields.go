package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldPath       = "path"
	FieldProfile    = "profile"
	FieldLocale     = "locale"
	FieldRevision   = "revision"
	FieldDurationMs = "duration_ms"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
)

const (
	EventCatalogReload      = "catalog_reload"
	EventCatalogReloadError = "catalog_reload_error"
	EventFavoritesLoad      = "favorites_load"
	EventFavoritesPersist   = "favorites_persist"
	EventFavoritesMigrate   = "favorites_migrate"
	EventHTTPRequest        = "http_request"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func PathField(path string) zap.Field {
	return zap.String(FieldPath, path)
}

func ProfileField(profile string) zap.Field {
	return zap.String(FieldProfile, profile)
}

func LocaleField(locale string) zap.Field {
	return zap.String(FieldLocale, locale)
}

func RevisionField(revision uint64) zap.Field {
	return zap.Uint64(FieldRevision, revision)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func TraceIDField(value string) zap.Field {
	return zap.String(FieldTraceID, value)
}

func SpanIDField(value string) zap.Field {
	return zap.String(FieldSpanID, value)
}
