package spotify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Spotify app tokens nominally last an hour; re-exchange ten minutes early
// so a token never expires mid-batch.
const cachedTokenLifetime = 50 * time.Minute

// bearer returns a valid application bearer token, exchanging client
// credentials only when the cached token is gone or stale.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bearerToken != "" && time.Now().Before(c.bearerExpiry) {
		return c.bearerToken, nil
	}

	conf := &clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.accountsBaseURL + "/api/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	tok, err := conf.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	if err != nil {
		return "", fmt.Errorf("spotify: token exchange: %w", err)
	}

	c.bearerToken = tok.AccessToken
	c.bearerExpiry = time.Now().Add(cachedTokenLifetime)

	return c.bearerToken, nil
}
