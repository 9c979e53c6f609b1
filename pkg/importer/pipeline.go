package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

// Pipeline orchestrates one import run: fetch the account profile, fetch
// the contact list(s), deduplicate, return. It holds no mutable shared
// state, so one Pipeline may serve any number of concurrent runs.
type Pipeline struct {
	logger *slog.Logger
}

// PipelineOption configures a Pipeline during construction.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger used for run diagnostics. Logging is discarded
// by default.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline constructs an import pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run imports the authenticated account's profile and contacts through the
// given adapter. A nil profile is not fatal, some providers omit it under
// reduced scope grants, but any transport or response error aborts the
// whole run: a partial contact list is never presented as a complete one.
func (p *Pipeline) Run(ctx context.Context, adapter ProviderAdapter, accessToken, tokenType string) (*contacts.User, []contacts.Contact, error) {
	return p.run(ctx, adapter, accessToken, tokenType, nil)
}

func (p *Pipeline) run(ctx context.Context, adapter ProviderAdapter, accessToken, tokenType string, observe func(FlowState)) (*contacts.User, []contacts.Contact, error) {
	log := p.logger.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("provider", adapter.ProviderID()),
	)

	user, err := adapter.FetchProfile(ctx, accessToken, tokenType)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch profile: %w", err)
	}
	if user == nil {
		log.WarnContext(ctx, "provider returned no profile body, continuing without user")
	}
	if observe != nil {
		observe(StateProfileFetched)
	}

	list, err := adapter.FetchContacts(ctx, accessToken, tokenType)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch contacts: %w", err)
	}
	if observe != nil {
		observe(StateContactsFetched)
	}

	deduped := contacts.Dedupe(list)
	log.InfoContext(ctx, "import complete",
		slog.Int("contacts", len(deduped)),
		slog.Int("duplicates_collapsed", len(list)-len(deduped)),
	)
	return user, deduped, nil
}
