package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects backend endpoints, feature flags, and non-sensitive
// configuration, then emits a single structured zerolog event summarising the
// process state at startup. This makes it easy to see exactly how a server or
// Lambda was configured when troubleshooting from its logs.
type StartupLogger struct {
	name     string
	started  time.Time
	backends map[string]string
	features map[string]bool
	config   map[string]string
}

// NewStartupLogger creates a StartupLogger for the given binary name
// (e.g. "suggester-web", "suggester-lambda").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:     name,
		started:  time.Now(),
		backends: make(map[string]string),
		features: make(map[string]bool),
		config:   make(map[string]string),
	}
}

// Backend registers an external backend endpoint (URLs only, never secrets).
func (s *StartupLogger) Backend(label, endpoint string) *StartupLogger {
	s.backends[label] = endpoint
	return s
}

// Feature registers a boolean feature flag (e.g. "dynamoStore", "geminiBackend").
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// Log emits the collected startup state as one structured event.
func (s *StartupLogger) Log() {
	event := log.Info().
		Str("binary", s.name).
		Str("go_version", runtime.Version()).
		Dur("init_duration", time.Since(s.started))

	event = event.Dict("backends", dictFromStrings(s.backends))
	event = event.Dict("config", dictFromStrings(s.config))

	features := zerolog.Dict()
	for k, v := range s.features {
		features = features.Bool(k, v)
	}
	event = event.Dict("features", features)

	event.Msg("startup complete")
}

func dictFromStrings(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
