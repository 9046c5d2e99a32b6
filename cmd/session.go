package cmd

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cpheatmap/cpheatmap/internal/codepost"
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
)

// codePostSession builds the API client on first use. A heatmap served
// from the cache never needs a credential.
type codePostSession struct {
	cfg    *contract.Config
	logger *slog.Logger

	once   sync.Once
	client *codepost.Client
	err    error
}

var (
	_ contract.RecordFetcher    = (*codePostSession)(nil)
	_ contract.SubmissionSource = (*codePostSession)(nil)
)

func newCodePostSession(cfg *contract.Config, logger *slog.Logger) *codePostSession {
	return &codePostSession{cfg: cfg, logger: logger}
}

func (s *codePostSession) connect() (*codepost.Client, error) {
	s.once.Do(func() {
		s.client, s.err = codepost.NewClientFromConfig(s.cfg, s.logger)
	})
	return s.client, s.err
}

// Ingest implements contract.RecordFetcher.
func (s *codePostSession) Ingest(ctx context.Context, assignmentID int64) (schema.RecordSet, schema.IngestReport, error) {
	client, err := s.connect()
	if err != nil {
		return nil, schema.IngestReport{AssignmentID: assignmentID}, err
	}
	return codepost.NewIngestor(client).Ingest(ctx, assignmentID)
}

// AssignmentSubmissions implements contract.SubmissionSource.
func (s *codePostSession) AssignmentSubmissions(ctx context.Context, assignmentID int64) ([]schema.Submission, error) {
	client, err := s.connect()
	if err != nil {
		return nil, err
	}
	return client.AssignmentSubmissions(ctx, assignmentID)
}
