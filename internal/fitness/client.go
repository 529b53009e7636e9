package fitness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stillpoint/internal/core/clock"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Google Fit REST root.
const DefaultBaseURL = "https://www.googleapis.com/fitness/v1"

// ErrNoToken indicates a fetch without an access token.
var ErrNoToken = errors.New("no access token")

// Client reads aggregated data from the Google Fit REST API.
type Client struct {
	resty  *resty.Client
	clock  clock.Clock
	logger *zap.Logger
}

// NewClient creates a client for baseURL. Requests are never retried.
func NewClient(baseURL string, clk clock.Clock, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if clk == nil {
		clk = clock.System
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	restyClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Stillpoint/1.0")
	return &Client{resty: restyClient, clock: clk, logger: logger}
}

// FetchDailyAggregate returns today's steps and last heart rate.
func (client *Client) FetchDailyAggregate(ctx context.Context, token *oauth2.Token) (DailyAggregate, error) {
	if token == nil || token.AccessToken == "" {
		return DailyAggregate{}, ErrNoToken
	}

	var body aggregateResponse
	response, err := client.resty.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetBody(newDailyRequest(client.clock.Now())).
		SetResult(&body).
		Post("/users/me/dataset:aggregate")
	if err != nil {
		return DailyAggregate{}, fmt.Errorf("aggregate request: %w", err)
	}
	if response.IsError() {
		return DailyAggregate{}, fmt.Errorf("aggregate request: %s", response.Status())
	}

	aggregate, err := body.daily()
	if err != nil {
		return DailyAggregate{}, err
	}
	client.logger.Debug("fitness aggregate fetched",
		zap.Bool("steps", aggregate.Steps != nil),
		zap.Bool("heart_rate", aggregate.LastHeartRateBpm != nil),
	)
	return aggregate, nil
}
