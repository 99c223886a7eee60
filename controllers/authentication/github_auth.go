package authentication

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v69/github"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/services/accounts"
)

const oauthSessionName = "cmp_oauth"

type GitHubHandler struct {
	oauth         *oauth2.Config
	apiBaseURL    string // empty uses api.github.com
	store         sessions.Store
	accounts      *accounts.Service
	auth          *AuthHandler
	clientOrigins []string
	log           *logger.Logger
}

type GitHubOption func(*GitHubHandler)

// WithGitHubEndpoints points the OAuth exchange and the REST API at other
// hosts.
func WithGitHubEndpoints(endpoint oauth2.Endpoint, apiBaseURL string) GitHubOption {
	return func(h *GitHubHandler) {
		h.oauth.Endpoint = endpoint
		h.apiBaseURL = strings.TrimRight(apiBaseURL, "/")
	}
}

func NewGitHubHandler(cfg config.Config, store sessions.Store, accountSvc *accounts.Service, auth *AuthHandler, log *logger.Logger, opts ...GitHubOption) *GitHubHandler {
	h := &GitHubHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.CallbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     githuboauth.Endpoint,
		},
		store:         store,
		accounts:      accountSvc,
		auth:          auth,
		clientOrigins: cfg.ClientOrigins(),
		log:           log.With("handler", "GitHubHandler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *GitHubHandler) enabled() bool {
	return h.oauth.ClientID != "" && h.oauth.ClientSecret != ""
}

// Login redirects to GitHub. The optional state query parameter is a URL on
// the client origin to return to after sign-in.
func (h *GitHubHandler) Login(c *gin.Context) {
	if !h.enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "github login is not configured"})
		return
	}

	session, _ := h.store.Get(c.Request, oauthSessionName)
	state := uuid.NewString()
	session.Values["state"] = state
	session.Values["return_to"] = h.safeReturnURL(c.Query("state"))
	if err := session.Save(c.Request, c.Writer); err != nil {
		h.log.Error("Saving oauth session failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

func (h *GitHubHandler) Callback(c *gin.Context) {
	session, _ := h.store.Get(c.Request, oauthSessionName)
	expected, _ := session.Values["state"].(string)
	returnTo, _ := session.Values["return_to"].(string)
	if returnTo == "" {
		returnTo = h.clientOrigin()
	}

	delete(session.Values, "state")
	delete(session.Values, "return_to")
	if session.Options != nil {
		session.Options.MaxAge = -1
	}
	_ = session.Save(c.Request, c.Writer)

	if expected == "" || c.Query("state") != expected {
		h.log.Warn("Invalid OAuth state")
		h.fail(c)
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.log.Warn("GitHub code exchange failed", "error", err)
		h.fail(c)
		return
	}

	client, err := h.apiClient(ctx, token)
	if err != nil {
		h.log.Error("Building GitHub client failed", "error", err)
		h.fail(c)
		return
	}
	identity, err := h.fetchIdentity(ctx, client)
	if err != nil {
		h.log.Warn("Fetching GitHub profile failed", "error", err)
		h.fail(c)
		return
	}

	u, err := h.accounts.UpsertGitHub(ctx, identity)
	if err != nil {
		h.log.Error("Saving GitHub user failed", "error", err)
		h.fail(c)
		return
	}
	if _, err := h.auth.setSessionCookie(c, u); err != nil {
		h.log.Error("Issuing token failed", "error", err)
		h.fail(c)
		return
	}

	h.log.Info("GitHub sign-in", "user_id", u.ID)
	c.Redirect(http.StatusFound, returnTo)
}

// apiClient returns a REST client authorized with the user's token.
func (h *GitHubHandler) apiClient(ctx context.Context, token *oauth2.Token) (*github.Client, error) {
	client := github.NewClient(h.oauth.Client(ctx, token))
	if h.apiBaseURL != "" {
		base, err := url.Parse(h.apiBaseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing github api url: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}

func (h *GitHubHandler) fetchIdentity(ctx context.Context, client *github.Client) (accounts.GitHubIdentity, error) {
	gu, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return accounts.GitHubIdentity{}, err
	}
	if gu.GetID() == 0 {
		return accounts.GitHubIdentity{}, fmt.Errorf("github user has no id")
	}

	email := gu.GetEmail()
	if email == "" {
		emails, _, err := client.Users.ListEmails(ctx, nil)
		if err != nil {
			h.log.Warn("Fetching GitHub emails failed", "error", err)
		}
		for _, e := range emails {
			if e.GetPrimary() && e.GetVerified() {
				email = e.GetEmail()
				break
			}
		}
	}

	return accounts.GitHubIdentity{
		ID:        strconv.FormatInt(gu.GetID(), 10),
		Login:     gu.GetLogin(),
		Name:      gu.GetName(),
		Email:     email,
		AvatarURL: gu.GetAvatarURL(),
	}, nil
}

// clientOrigin is the primary origin, used for default redirects.
func (h *GitHubHandler) clientOrigin() string {
	if len(h.clientOrigins) == 0 {
		return ""
	}
	return h.clientOrigins[0]
}

// safeReturnURL keeps redirects on one of the client origins.
func (h *GitHubHandler) safeReturnURL(raw string) string {
	if raw != "" {
		for _, origin := range h.clientOrigins {
			if raw == origin || strings.HasPrefix(raw, origin+"/") {
				return raw
			}
		}
	}
	return h.clientOrigin()
}

func (h *GitHubHandler) fail(c *gin.Context) {
	c.Redirect(http.StatusFound, h.clientOrigin()+"/login?error=oauth_failed")
}
