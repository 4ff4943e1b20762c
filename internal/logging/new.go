package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New builds the logger named by format: "text" for log/slog text output,
// "json" for zerolog JSON lines, anything else for zerolog console output.
func New(w io.Writer, format, level string) Logger {
	switch format {
	case "text":
		return NewTextSlogLogger(w, level)
	case "json":
		return NewZerologLogger(zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger())
	default:
		return NewConsoleLogger(w, level)
	}
}
