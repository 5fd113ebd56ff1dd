package replay

import (
	"github.com/okian/skillrank/internal/domain/rating"
	"github.com/okian/skillrank/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConfig sets the rating model parameters.
func WithConfig(cfg rating.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithProgressEvery sets how many matches pass between progress
// notifications.
func WithProgressEvery(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.progressEvery = n
		}
	}
}

// WithLogger sets the logger used for progress and skip notices.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgressFunc registers a callback invoked at every progress point.
func WithProgressFunc(fn func(Progress)) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}
