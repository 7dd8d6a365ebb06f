package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"alfred/internal/config"
)

// HasToken checks if a persisted OAuth token exists for the given scope.
func HasToken(scope Scope) bool {
	_, err := os.ReadFile(tokenFile(scope))
	return err == nil
}

// AuthURL returns the OAuth URL the user must visit to authorize the
// given credential scope.
func AuthURL(scope Scope) (string, error) {
	conf, err := oauthConfig(scope)
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state"), nil
}

// SaveToken exchanges an authorization code for tokens and persists them
// for the given scope. Each scope keeps its own token file so that write
// capability stays confined to the bot-owned calendar credential.
func SaveToken(ctx context.Context, scope Scope, authCode string) error {
	conf, err := oauthConfig(scope)
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFile(scope)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// oauthConfig returns the OAuth2 configuration for one credential scope.
// Client credentials come from the environment; a missing client config is
// surfaced at the point of first use.
func oauthConfig(scope Scope) (*oauth2.Config, error) {
	clientID, clientSecret, err := config.OAuthClient()
	if err != nil {
		return nil, err
	}

	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       []string{scope.URL()},
	}, nil
}

// TokenSource returns an OAuth2 token source for the stored token of the
// given scope. The source refreshes expired access tokens automatically as
// long as a refresh token is present.
func TokenSource(ctx context.Context, scope Scope) (oauth2.TokenSource, error) {
	conf, err := oauthConfig(scope)
	if err != nil {
		return nil, err
	}

	slurp, err := os.ReadFile(tokenFile(scope))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for scope %s, run the auth command first", scope)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format for scope %s", scope)
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token for scope %s is invalid: %w", scope, err)
	}

	return ts, nil
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication
// for the given scope. The client is configured to use HTTP/1.1 to avoid
// HTTP/2 protocol errors.
func HTTPClient(ctx context.Context, scope Scope) (*http.Client, error) {
	ts, err := TokenSource(ctx, scope)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	return client, nil
}

// tokenFile returns the per-scope token path under the user cache dir.
func tokenFile(scope Scope) string {
	return filepath.Join(userCacheDir(), "alfred", fmt.Sprintf("google.%s.token", scope))
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
