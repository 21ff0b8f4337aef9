package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Outside production it writes
// human-readable console output; in production it writes JSON lines.
func Setup(level string, production bool) zerolog.Logger {
	return setup(os.Stdout, level, production)
}

func setup(out io.Writer, level string, production bool) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = time.RFC3339

	if !production {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	zlog.Logger = zerolog.New(out).With().Timestamp().Logger()
	return zlog.Logger
}
