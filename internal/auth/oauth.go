package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal what we store.
type GitHubUser struct {
	ID        int64  `json:"id"`         // GitHub's numeric user ID — stable, never changes
	Login     string `json:"login"`      // GitHub username
	Name      string `json:"name"`       // Display name (may be empty)
	AvatarURL string `json:"avatar_url"` // Profile picture URL
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code
// flow. The code-for-token exchange happens server-to-server with the client
// secret; the access token never reaches the browser.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a GitHubProvider with the given credentials.
// callbackURL must match the OAuth app's configured callback exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
// state is a random nonce stored in a cookie and verified on callback
// (CSRF protection for the OAuth flow).
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the verified GitHub profile:
// code → access token → GET /user.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// Client returns an *http.Client that attaches the bearer token.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	return &ghUser, nil
}
