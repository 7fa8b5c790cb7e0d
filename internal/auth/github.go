package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// ProviderGitHub is the provider name stored with GitHub-linked users.
const ProviderGitHub = "github"

const defaultGitHubAPI = "https://api.github.com"

// GitHubUser is the subset of the GitHub user profile the app keeps.
type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OAuthID returns the provider-side user id as stored in the users table.
func (u GitHubUser) OAuthID() string {
	return strconv.FormatInt(u.ID, 10)
}

// DisplayName falls back to the login when the profile has no name.
func (u GitHubUser) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Login
}

type gitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHub performs the authorization code flow against GitHub.
type GitHub struct {
	config     *oauth2.Config
	apiBaseURL string
}

// NewGitHub creates a GitHub provider with the public GitHub endpoints.
func NewGitHub(clientID, clientSecret, redirectURL string) *GitHub {
	return &GitHub{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: defaultGitHubAPI,
	}
}

// WithEndpoints points the provider at a different GitHub installation.
func (g *GitHub) WithEndpoints(authURL, tokenURL, apiBaseURL string) *GitHub {
	g.config.Endpoint = oauth2.Endpoint{
		AuthURL:   authURL,
		TokenURL:  tokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
	g.apiBaseURL = strings.TrimSuffix(apiBaseURL, "/")
	return g
}

// AuthCodeURL returns the GitHub consent page URL for state.
func (g *GitHub) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (g *GitHub) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// FetchUser loads the profile of the token owner. When the public profile
// hides the email, the primary address from /user/emails is used, and
// <login>@github.local when none is available.
func (g *GitHub) FetchUser(ctx context.Context, token *oauth2.Token) (GitHubUser, error) {
	client := g.config.Client(ctx, token)

	var user GitHubUser
	if err := g.getJSON(ctx, client, "/user", &user); err != nil {
		return GitHubUser{}, err
	}
	if user.ID == 0 {
		return GitHubUser{}, fmt.Errorf("github user response has no id")
	}
	if user.Email != "" {
		return user, nil
	}

	var emails []gitHubEmail
	if err := g.getJSON(ctx, client, "/user/emails", &emails); err == nil {
		user.Email = pickEmail(emails)
	}
	if user.Email == "" {
		user.Email = user.Login + "@github.local"
	}
	return user, nil
}

func pickEmail(emails []gitHubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}

func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call github %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("github %s returned status %d: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode github %s response: %w", path, err)
	}
	return nil
}
