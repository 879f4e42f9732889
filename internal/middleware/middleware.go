package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/metrics"
	"go.uber.org/zap"
)

// MetricsMiddleware records command metrics and logs each command
func MetricsMiddleware(m *metrics.AppMetrics) command.Middleware {
	return func(next command.Handler) command.Handler {
		return func(ctx context.Context, req *command.Request) (*command.Response, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			outcome := "ok"
			if err != nil {
				outcome = string(apperr.KindOf(err))
			}
			m.RecordCommand(ctx, req.Name, outcome, start)

			fields := []zap.Field{
				zap.String("command", req.Name),
				zap.Int("args", len(req.Args)),
				zap.String("outcome", outcome),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil && outcome == string(apperr.KindInternal) {
				logger.Error(ctx, "Command failed", err, fields...)
			} else {
				logger.Debug(ctx, "Command completed", fields...)
			}
			return resp, err
		}
	}
}

// CommandIDMiddleware assigns an id to the command and carries it in the context
func CommandIDMiddleware(next command.Handler) command.Handler {
	return func(ctx context.Context, req *command.Request) (*command.Response, error) {
		if req.ID == "" {
			req.ID = generateCommandID()
		}
		return next(logger.WithCommandID(ctx, req.ID), req)
	}
}

// RecoverMiddleware turns a handler panic into an internal error
func RecoverMiddleware(next command.Handler) command.Handler {
	return func(ctx context.Context, req *command.Request) (resp *command.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp = nil
				err = apperr.Internal(fmt.Errorf("panic in %q: %v", req.Name, r))
			}
		}()
		return next(ctx, req)
	}
}

func generateCommandID() string {
	return uuid.NewString()
}
