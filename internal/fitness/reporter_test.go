package fitness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

type stubTokens struct {
	token *oauth2.Token
	err   error
}

func (stub stubTokens) Authorize(context.Context) (*oauth2.Token, error) {
	return stub.token, stub.err
}

type stubFetcher struct {
	aggregate DailyAggregate
	err       error
	calls     int
}

func (stub *stubFetcher) FetchDailyAggregate(context.Context, *oauth2.Token) (DailyAggregate, error) {
	stub.calls++
	return stub.aggregate, stub.err
}

func TestReporterRefresh(t *testing.T) {
	steps := int64(42)
	fetcher := &stubFetcher{aggregate: DailyAggregate{Steps: &steps}}
	reporter := NewReporter(stubTokens{token: &oauth2.Token{AccessToken: "a"}}, fetcher, nil)

	var progress []string
	text := reporter.Refresh(context.Background(), func(message string) {
		progress = append(progress, message)
	})
	assert.Equal(t, "Today's Data:\nSteps: 42\nHeart Rate: No data", text)
	assert.Equal(t, []string{FetchingText}, progress)
}

func TestReporterAuthorizationFailure(t *testing.T) {
	fetcher := &stubFetcher{}
	reporter := NewReporter(stubTokens{err: ErrAuthorization}, fetcher, nil)

	assert.Equal(t, AuthFailedText, reporter.Refresh(context.Background(), nil))
	assert.Zero(t, fetcher.calls)
}

func TestReporterFetchFailureIsNotRetried(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	reporter := NewReporter(stubTokens{token: &oauth2.Token{AccessToken: "a"}}, fetcher, nil)

	assert.Equal(t, FetchFailedText, reporter.Refresh(context.Background(), nil))
	assert.Equal(t, 1, fetcher.calls)
}

func TestReporterNotConfigured(t *testing.T) {
	assert.Equal(t, NotConfiguredText, NewReporter(nil, nil, nil).Refresh(context.Background(), nil))
}
