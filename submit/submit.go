// Package submit defines the collaborator a session hands a submittable
// application to.
package submit

import (
	"context"

	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/model"
)

// Submitter receives a submission. Implementations must not retain or
// modify s.Canonical after returning.
type Submitter interface {
	Submit(ctx context.Context, s model.Submission) error
}

// Func adapts a function to Submitter.
type Func func(ctx context.Context, s model.Submission) error

func (f Func) Submit(ctx context.Context, s model.Submission) error { return f(ctx, s) }

// LogSubmitter records each submission as a structured log line.
type LogSubmitter struct {
	Logger *zap.Logger
	// IncludeDocument adds the full document to the log entry.
	IncludeDocument bool
}

func (l LogSubmitter) Submit(ctx context.Context, s model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := []zap.Field{
		zap.String("fingerprint", s.Fingerprint),
		zap.String("cid", s.CID),
		zap.String("algorithm", s.Algorithm),
		zap.String("encoding", s.Encoding),
		zap.Int("canonical_bytes", len(s.Canonical)),
		zap.String("grant_type", string(s.Document.GrantType)),
	}
	if l.IncludeDocument {
		fields = append(fields, zap.Any("document", s.Document))
	}
	logger.Info("application submitted", fields...)
	return nil
}
