package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/alexanderramin/taskflow/internal/config"
)

// ErrNotAuthorized is returned when no saved token exists yet. The wrapping
// AuthRequiredError carries the URL the user must visit.
var ErrNotAuthorized = errors.New("calendar access not authorized")

// AuthRequiredError tells the caller where to obtain an authorization code.
type AuthRequiredError struct {
	URL string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%v: visit %s and run `taskflow calendar auth <code>`", ErrNotAuthorized, e.URL)
}

func (e *AuthRequiredError) Unwrap() error { return ErrNotAuthorized }

// OAuthConfig reads the client credentials file.
func OAuthConfig(cfg config.CalendarConfig) (*oauth2.Config, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading calendar credentials %s: %w", cfg.CredentialsFile, err)
	}
	oc, err := google.ConfigFromJSON(b, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar credentials: %w", err)
	}
	return oc, nil
}

// NewService builds an authorized calendar service from the saved token.
// When no token has been saved it returns an *AuthRequiredError.
func NewService(ctx context.Context, cfg config.CalendarConfig) (*gcal.Service, error) {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(cfg.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &AuthRequiredError{URL: oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline)}
		}
		return nil, err
	}
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(oc.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return srv, nil
}

// Authorize exchanges an authorization code and saves the resulting token.
func Authorize(ctx context.Context, cfg config.CalendarConfig, code string, log *zap.Logger) error {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return err
	}
	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := saveToken(cfg.TokenFile, tok); err != nil {
		return err
	}
	if log != nil {
		log.Info("calendar token saved", zap.String("path", cfg.TokenFile))
	}
	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decoding calendar token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("saving calendar token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
