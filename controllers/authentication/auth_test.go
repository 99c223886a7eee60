package authentication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models/users"
	"craftmyprep-backend/services/accounts"
	"craftmyprep-backend/services/profile"
	"craftmyprep-backend/testutil"
)

func init() { gin.SetMode(gin.TestMode) }

type harness struct {
	engine *gin.Engine
	tokens *TokenIssuer
	f      *testutil.Fixture
}

func newHarness(t *testing.T, opts ...GitHubOption) *harness {
	t.Helper()
	f := testutil.NewFixture(t)
	log := logger.NewNop()
	cfg := config.Default()
	cfg.GitHub.ClientID = "client"
	cfg.GitHub.ClientSecret = "secret"

	tokens := NewTokenIssuer("test-secret", time.Hour)
	accountSvc := accounts.NewService(f.DB, nil, log)
	auth := NewAuthHandler(accountSvc, profile.NewService(f.DB, nil, log), tokens, CookieOptions{Name: "cmp_token"}, log)
	gh := NewGitHubHandler(cfg, config.NewSessionStore(cfg), accountSvc, auth, log, opts...)
	mw := NewMiddleware(tokens, "cmp_token", accountSvc, log)

	r := gin.New()
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/logout", auth.Logout)
	r.GET("/auth/me", mw.RequireAuth(), auth.Me)
	r.GET("/auth/github", gh.Login)
	r.GET("/auth/github/callback", gh.Callback)
	return &harness{engine: r, tokens: tokens, f: f}
}

func (h *harness) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginMe(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"secret1","name":"Ana"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "cmp_token=")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")

	w = h.do(http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"wrong!!"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string       `json:"token"`
		User  users.Public `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "Ana", login.User.Name)

	w = h.do(http.MethodGet, "/auth/me", "", http.Header{"Authorization": {"Bearer " + login.Token}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ana@example.com"`)

	w = h.do(http.MethodGet, "/auth/me", "", http.Header{"Cookie": {"cmp_token=" + login.Token}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe_RejectsMissingOrBadToken(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodGet, "/auth/me", "", http.Header{"Authorization": {"Bearer not-a-jwt"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := NewTokenIssuer("other-secret", time.Hour)
	forged, err := other.Issue(&users.User{ID: 1})
	require.NoError(t, err)
	w = h.do(http.MethodGet, "/auth/me", "", http.Header{"Authorization": {"Bearer " + forged}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	tokens := NewTokenIssuer("k", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	expired, err := tokens.Issue(&users.User{ID: 3})
	require.NoError(t, err)

	_, err = tokens.Parse(expired)
	assert.Error(t, err)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/logout", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestGitHubFlow(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login/oauth/access_token":
			_, _ = w.Write([]byte(`{"access_token":"gh-token","token_type":"bearer"}`))
		case "/user":
			assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":99,"login":"octo","name":"","email":"","avatar_url":"https://avatars/99"}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[{"email":"old@example.com","primary":false,"verified":true},{"email":"octo@example.com","primary":true,"verified":true}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer gh.Close()

	h := newHarness(t, WithGitHubEndpoints(oauth2.Endpoint{
		AuthURL:  gh.URL + "/login/oauth/authorize",
		TokenURL: gh.URL + "/login/oauth/access_token",
	}, gh.URL))

	w := h.do(http.MethodGet, "/auth/github?state="+url.QueryEscape("http://localhost:3000/dashboard"), "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	sessionCookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, sessionCookie)
	cookie := strings.SplitN(sessionCookie, ";", 2)[0]

	w = h.do(http.MethodGet, "/auth/github/callback?code=abc&state=wrong", "", http.Header{"Cookie": {cookie}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=oauth_failed")

	w = h.do(http.MethodGet, "/auth/github/callback?code=abc&state="+state, "", http.Header{"Cookie": {cookie}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:3000/dashboard", w.Header().Get("Location"))

	var tokenCookie string
	for _, c := range w.Result().Cookies() {
		if c.Name == "cmp_token" {
			tokenCookie = c.Value
		}
	}
	require.NotEmpty(t, tokenCookie)
	claims, err := h.tokens.Parse(tokenCookie)
	require.NoError(t, err)

	var u users.User
	require.NoError(t, h.f.DB.First(&u, claims.UserID).Error)
	assert.Equal(t, "octo", u.Name)
	assert.Equal(t, "octo@example.com", u.EmailAddress())
	assert.Equal(t, "https://avatars/99", u.AvatarURL)
}

func TestGitHubLogin_RejectsForeignReturnURL(t *testing.T) {
	handler := NewGitHubHandler(config.Default(), nil, nil, nil, logger.NewNop())

	assert.Equal(t, "http://localhost:3000", handler.safeReturnURL("https://evil.example.com"))
	assert.Equal(t, "http://localhost:3000", handler.safeReturnURL("http://localhost:3000.evil.com/x"))
	assert.Equal(t, "http://localhost:3000/plans/1", handler.safeReturnURL("http://localhost:3000/plans/1"))
}

func TestGitHubHandler_MultipleClientOrigins(t *testing.T) {
	cfg := config.Default()
	cfg.ClientOrigin = "https://app.example.com/, http://localhost:3000"
	handler := NewGitHubHandler(cfg, nil, nil, nil, logger.NewNop())

	assert.Equal(t, "https://app.example.com", handler.safeReturnURL(""))
	assert.Equal(t, "http://localhost:3000/plans/2", handler.safeReturnURL("http://localhost:3000/plans/2"))
	assert.Equal(t, "https://app.example.com/dashboard", handler.safeReturnURL("https://app.example.com/dashboard"))
	assert.Equal(t, "https://app.example.com", handler.safeReturnURL("https://app.example.com,http://localhost:3000"))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	handler.fail(c)
	assert.Equal(t, "https://app.example.com/login?error=oauth_failed", w.Header().Get("Location"))
}
