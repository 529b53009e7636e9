package fitness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Read-only scopes for heart rate and activity data.
var Scopes = []string{
	"https://www.googleapis.com/auth/fitness.heart_rate.read",
	"https://www.googleapis.com/auth/fitness.activity.read",
}

// ErrAuthorization indicates the user denied access or the callback was invalid.
var ErrAuthorization = errors.New("authorization failed")

// Opener shows the consent page to the user, normally in the system browser.
type Opener func(authURL string) error

// GoogleConfig returns the OAuth client for the Google Fit scopes.
func GoogleConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}
}

// Authorizer runs the installed-app flow with a loopback redirect and PKCE.
type Authorizer struct {
	mu     sync.Mutex
	config *oauth2.Config
	open   Opener
	logger *zap.Logger
	token  *oauth2.Token
}

// NewAuthorizer creates an authorizer for config.
func NewAuthorizer(config *oauth2.Config, open Opener, logger *zap.Logger) *Authorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{config: config, open: open, logger: logger}
}

// Token returns the cached token, if any.
func (authorizer *Authorizer) Token() *oauth2.Token {
	authorizer.mu.Lock()
	defer authorizer.mu.Unlock()
	return authorizer.token
}

type callbackResult struct {
	code string
	err  error
}

// Authorize returns a valid access token. A cached valid token is reused; otherwise the
// consent page is opened, asking for explicit consent only the first time.
func (authorizer *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	authorizer.mu.Lock()
	defer authorizer.mu.Unlock()

	if authorizer.token.Valid() {
		return authorizer.token, nil
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}

	config := *authorizer.config
	config.RedirectURL = fmt.Sprintf("http://%s/callback", listener.Addr().String())
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	options := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if authorizer.token == nil {
		options = append(options, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	authURL := config.AuthCodeURL(state, options...)

	results := make(chan callbackResult, 1)
	server := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			authorizer.logger.Warn("oauth callback server", zap.Error(serveErr))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := authorizer.open(authURL); err != nil {
		return nil, fmt.Errorf("open consent page: %w", err)
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-results:
	}
	if result.err != nil {
		return nil, result.err
	}

	token, err := config.Exchange(ctx, result.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	authorizer.token = token
	authorizer.logger.Info("fitness authorized", zap.Time("expiry", token.Expiry))
	return token, nil
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		var result callbackResult
		switch {
		case query.Get("state") != state:
			result.err = fmt.Errorf("%w: state mismatch", ErrAuthorization)
		case query.Get("error") != "":
			result.err = fmt.Errorf("%w: %s", ErrAuthorization, query.Get("error"))
		case query.Get("code") == "":
			result.err = fmt.Errorf("%w: missing code", ErrAuthorization)
		default:
			result.code = query.Get("code")
		}

		if result.err != nil {
			http.Error(writer, "Authorization failed. You can close this window.", http.StatusBadRequest)
		} else {
			_, _ = writer.Write([]byte("Authorization complete. You can close this window."))
		}
		select {
		case results <- result:
		default:
		}
	})
	return mux
}
