package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/iudanet/tweetbook/internal/server/config"
)

// NewLogger builds the process logger from the configured level and format
func NewLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
