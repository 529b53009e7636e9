package fitness

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Panel messages.
const (
	FetchingText      = "Successfully authorized! Fetching data..."
	AuthFailedText    = "Authorization failed."
	FetchFailedText   = "Could not fetch fitness data."
	NotConfiguredText = "Google Fit is not configured."
)

// TokenSource authorizes the user.
type TokenSource interface {
	Authorize(ctx context.Context) (*oauth2.Token, error)
}

// Fetcher reads today's aggregate.
type Fetcher interface {
	FetchDailyAggregate(ctx context.Context, token *oauth2.Token) (DailyAggregate, error)
}

// Reporter turns authorization and fetch results into panel text.
// Errors are logged here and never retried.
type Reporter struct {
	tokens  TokenSource
	fetcher Fetcher
	logger  *zap.Logger
}

// NewReporter creates a reporter.
func NewReporter(tokens TokenSource, fetcher Fetcher, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{tokens: tokens, fetcher: fetcher, logger: logger}
}

// Refresh authorizes, fetches and returns the text to display.
// progress receives intermediate text and may be nil.
func (reporter *Reporter) Refresh(ctx context.Context, progress func(string)) string {
	if reporter.tokens == nil || reporter.fetcher == nil {
		return NotConfiguredText
	}

	token, err := reporter.tokens.Authorize(ctx)
	if err != nil {
		reporter.logger.Error("fitness authorization", zap.Error(err))
		return AuthFailedText
	}
	if progress != nil {
		progress(FetchingText)
	}

	aggregate, err := reporter.fetcher.FetchDailyAggregate(ctx, token)
	if err != nil {
		reporter.logger.Error("fetch fitness data", zap.Error(err))
		return FetchFailedText
	}
	return Format(aggregate)
}
