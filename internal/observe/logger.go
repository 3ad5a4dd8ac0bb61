// SPDX-License-Identifier: EPL-2.0

package observe

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a slog logger writing to w. format is "json" or "text";
// anything else falls back to text.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
