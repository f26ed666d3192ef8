// Package dropbox (auth.go) provides the OAuth 2.0 flows for obtaining a
// Dropbox access token: the implicit grant, where the token comes back in the
// fragment of a redirect URL, and the PKCE code grant for apps that can hold
// on to a verifier until the exchange. It also defines UserAuth, the
// credential every API call carries.
package dropbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	cv "github.com/nirasan/go-oauth-pkce-code-verifier"
	"golang.org/x/oauth2"
)

// UserAuth is a validated bearer credential. The token itself stays private
// to the package; API calls obtain the header value through
// AuthorizationHeader.
type UserAuth struct {
	accessToken string
}

// BearerAuth wraps an access token obtained out of band (an environment
// variable, a previous login) into a credential.
func BearerAuth(accessToken string) UserAuth {
	return UserAuth{accessToken: accessToken}
}

// AuthorizationHeader renders the credential as an Authorization header
// value, e.g. "Bearer sl.ABC123".
func (a UserAuth) AuthorizationHeader() string {
	return "Bearer " + a.accessToken
}

// AccessToken returns the raw token, for callers that hand the credential to
// an environment variable or another credential store. Most callers want
// AuthorizationHeader instead.
func (a UserAuth) AccessToken() string {
	return a.accessToken
}

// TokenSource adapts the credential for libraries that consume oauth2 token
// sources.
func (a UserAuth) TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.accessToken, TokenType: "Bearer"})
}

// AuthorizeRequest describes an implicit-grant authorization to be started in
// the user's browser.
type AuthorizeRequest struct {
	ClientID    string
	RedirectURI string
}

// URL renders the Dropbox authorization URL for the request. The values are
// joined verbatim, without URL encoding: Dropbox matches the redirect URI
// character for character against the app's registered URIs, so the caller
// supplies it exactly as registered.
//
// Example:
//
//	r := dropbox.AuthorizeRequest{ClientID: "abc123", RedirectURI: "https://example.com/auth"}
//	fmt.Println(r.URL())
func (r AuthorizeRequest) URL() string {
	return authorizeEndpoint + "?response_type=token&client_id=" + r.ClientID + "&redirect_uri=" + r.RedirectURI
}

// ParseFragment splits a URL fragment into its key/value parameters. Entries
// are separated by "&" and split on the first "="; entries without any "="
// are dropped. When a key repeats, the last value wins.
func ParseFragment(fragment string) map[string]string {
	params := map[string]string{}
	for _, entry := range strings.Split(fragment, "&") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		params[key] = value
	}
	return params
}

// AuthorizeResponse is the set of credentials Dropbox appends to the redirect
// URL after the user approves an implicit-grant authorization.
type AuthorizeResponse struct {
	AccessToken string
	TokenType   string
	UID         string
	AccountID   string
}

// ParseAuthorizeResponse extracts the authorization credentials from redirect
// fragment parameters. ErrNoAuthorization is returned when any of the four
// expected keys is absent, which is the normal case for a page load that did
// not come through Dropbox's redirect.
func ParseAuthorizeResponse(params map[string]string) (AuthorizeResponse, error) {
	var response AuthorizeResponse
	var ok bool
	if response.AccessToken, ok = params["access_token"]; !ok {
		return AuthorizeResponse{}, ErrNoAuthorization
	}
	if response.TokenType, ok = params["token_type"]; !ok {
		return AuthorizeResponse{}, ErrNoAuthorization
	}
	if response.UID, ok = params["uid"]; !ok {
		return AuthorizeResponse{}, ErrNoAuthorization
	}
	if response.AccountID, ok = params["account_id"]; !ok {
		return AuthorizeResponse{}, ErrNoAuthorization
	}
	return response, nil
}

// UserAuth checks the response's token type and converts it into a usable
// credential. Anything other than a "bearer" token (exact, lower case) is
// rejected with a *TokenTypeError.
func (r AuthorizeResponse) UserAuth() (UserAuth, error) {
	if r.TokenType != "bearer" {
		return UserAuth{}, &TokenTypeError{TokenType: r.TokenType}
	}
	return UserAuth{accessToken: r.AccessToken}, nil
}

// TokenTypeError reports a redirect that carried a token of a type other than
// "bearer". Only bearer tokens fit the Authorization header scheme the API
// expects, so the credential is refused rather than silently misused.
type TokenTypeError struct {
	TokenType string
}

func (e *TokenTypeError) Error() string {
	return fmt.Sprintf("Unknown token_type: %s", e.TokenType)
}

// ParseRedirect extracts a credential from a full redirect URL. The fragment
// is taken in its escaped form so percent-encoded octets inside the token
// survive untouched.
//
// Example:
//
//	loc, _ := url.Parse("https://example.com/auth#access_token=abc&token_type=bearer&uid=1&account_id=dbid%3Axyz")
//	auth, err := dropbox.ParseRedirect(loc)
func ParseRedirect(loc *url.URL) (UserAuth, error) {
	response, err := ParseAuthorizeResponse(ParseFragment(loc.EscapedFragment()))
	if err != nil {
		return UserAuth{}, err
	}
	return response.UserAuth()
}

// RedirectHandler routes a freshly loaded page URL. Pages that arrive through
// Dropbox's redirect carry credentials in the fragment; every other page is
// plain navigation. OnAuth receives the credential when one is present, and
// Next receives the URL afterwards either way.
type RedirectHandler struct {
	OnAuth func(UserAuth) error
	Next   func(*url.URL) error
}

// Handle inspects loc and dispatches. A fragment without credentials is not
// an error, navigation just proceeds. A fragment with a credential of the
// wrong token type is.
func (h RedirectHandler) Handle(loc *url.URL) error {
	auth, err := ParseRedirect(loc)
	if err != nil {
		if errors.Is(err, ErrNoAuthorization) {
			return h.next(loc)
		}
		return err
	}
	if h.OnAuth != nil {
		if err := h.OnAuth(auth); err != nil {
			return err
		}
	}
	return h.next(loc)
}

func (h RedirectHandler) next(loc *url.URL) error {
	if h.Next == nil {
		return nil
	}
	return h.Next(loc)
}

// OAuthConfig holds the OAuth 2.0 endpoints and app identity for the PKCE
// code grant.
type OAuthConfig oauth2.Config

// NewOAuthConfig builds the standard Dropbox PKCE configuration for an app.
// Dropbox PKCE apps carry no client secret.
func NewOAuthConfig(clientID, redirectURI string) *OAuthConfig {
	return &OAuthConfig{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authorizeEndpoint,
			TokenURL: tokenEndpoint,
		},
	}
}

// StartAuthorization begins a PKCE code grant. It returns the URL to open in
// the user's browser and the code verifier that must be presented again in
// CompleteAuthorization.
//
// Example:
//
//	cfg := dropbox.NewOAuthConfig(appKey, redirectURI)
//	authURL, verifier, err := dropbox.StartAuthorization(cfg)
//	// Send the user to authURL, then exchange the code they bring back:
//	auth, err := dropbox.CompleteAuthorization(ctx, cfg, code, verifier)
func StartAuthorization(oauthConfig *OAuthConfig) (authURL string, codeVerifier string, err error) {
	codeVerifierObj, err := cv.CreateCodeVerifier()
	if err != nil {
		return "", "", fmt.Errorf("creating code verifier: %w", err)
	}

	pkceParams := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", codeVerifierObj.CodeChallengeS256()),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		// Ask for a refresh token alongside the short-lived access token.
		oauth2.SetAuthURLParam("token_access_type", "offline"),
	}

	authURL = (*oauth2.Config)(oauthConfig).AuthCodeURL("state-not-used", pkceParams...)
	return authURL, codeVerifierObj.String(), nil
}

// CompleteAuthorization exchanges the authorization code for a token and
// wraps it into a credential.
func CompleteAuthorization(ctx context.Context, oauthConfig *OAuthConfig, code string, codeVerifier string) (UserAuth, error) {
	token, err := (*oauth2.Config)(oauthConfig).Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return UserAuth{}, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return AuthFromToken(token)
}

// AuthFromToken converts an oauth2 token into a credential, applying the same
// token-type check as the implicit grant. Note oauth2 canonicalizes bearer
// variants to "Bearer".
func AuthFromToken(token *oauth2.Token) (UserAuth, error) {
	if token.Type() != "Bearer" {
		return UserAuth{}, &TokenTypeError{TokenType: token.Type()}
	}
	return UserAuth{accessToken: token.AccessToken}, nil
}
