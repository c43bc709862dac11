package log

import (
	"go.uber.org/zap"
)

var base = zap.NewNop()

// Init builds the process-wide logger. prod selects the production
// config (JSON, info level); otherwise the development config is used.
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	base = l
	return l, nil
}

// L returns the current logger. Safe to call before Init: it returns a
// nop logger until Init succeeds.
func L() *zap.Logger { return base }

func Sync() { _ = base.Sync() }
