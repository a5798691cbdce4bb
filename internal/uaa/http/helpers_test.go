package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/mail"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite"
	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer        = "https://uaa.test"
	webClientID       = "web_app"
	webClientSecret   = "web-secret"
	adminClientID     = "internal"
	adminClientSecret = "internal-secret"
	adminLogin        = "alice"
	adminPassword     = "alice-password"
)

var testHasher = cryptox.NewPasswordHasher("test-pepper", cryptox.Argon2Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
})

var noLimit = httpx.RateLimit{Requests: 10000, Window: time.Minute, Burst: 10000}

type sentMail struct {
	Template string
	User     mail.User
	BaseURL  string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) record(template string, u mail.User, baseURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Template: template, User: u, BaseURL: baseURL})
}

func (m *recordingMailer) SendCreationEmail(_ context.Context, u mail.User, baseURL string) {
	m.record(mail.TemplateCreation, u, baseURL)
}

func (m *recordingMailer) SendPasswordResetMail(_ context.Context, u mail.User, baseURL string) {
	m.record(mail.TemplatePasswordReset, u, baseURL)
}

func (m *recordingMailer) SendActivationEmail(_ context.Context, u mail.User, baseURL string) {
	m.record(mail.TemplateActivation, u, baseURL)
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	router *Router
	store  *sqlite.Store
	mailer *recordingMailer
}

func newFixture(t *testing.T, opts ...func(*Router)) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, NumKeys: 1})
	require.NoError(t, err)

	boot := &service.BootstrapService{
		Store:  st,
		Hasher: testHasher,
		WebClient: service.InitialClient{
			ClientID: webClientID, Secret: webClientSecret,
			AccessTokenValidity: 300, RefreshTokenValidity: 3600,
		},
		ServiceClient: service.InitialClient{
			ClientID: adminClientID, Secret: adminClientSecret,
			AccessTokenValidity: 300,
		},
		Admin: service.AdminUser{Login: adminLogin, Password: adminPassword, Email: "alice@example.com"},
	}
	require.NoError(t, boot.EnsureInitialClients(ctx))
	_, err = boot.EnsureAdminUser(ctx)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	reg := prometheus.NewRegistry()
	_ = mail.NewMetrics(reg)

	r := NewRouter(km, "test", st, slogx.Discard())
	r.ClientService = &service.ClientService{Store: st, Hasher: testHasher, InitialClientIDs: boot.InitialClientIDs()}
	r.TokenService = &service.TokenService{
		Store:      st,
		Hasher:     testHasher,
		KeyManager: km,
		Enhancer:   &service.TokenEnhancer{},
		Issuer:     testIssuer,
	}
	r.UserService = &service.UserService{Store: st, Hasher: testHasher, Mailer: mailer}
	r.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	r.Limits = RateLimits{Strict: noLimit, Moderate: noLimit, Lenient: noLimit}
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	return &fixture{router: r, store: st, mailer: mailer}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) token(t *testing.T, clientID, clientSecret string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(clientID, clientSecret)
	return f.do(t, req)
}

func (f *fixture) adminToken(t *testing.T) string {
	t.Helper()
	rec := f.token(t, adminClientID, adminClientSecret, url.Values{"grant_type": {"client_credentials"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[uaasdk.TokenResponse](t, rec.Body).AccessToken
}

func (f *fixture) userToken(t *testing.T, login, password string) uaasdk.TokenResponse {
	t.Helper()
	rec := f.token(t, webClientID, webClientSecret, url.Values{
		"grant_type": {"password"},
		"username":   {login},
		"password":   {password},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[uaasdk.TokenResponse](t, rec.Body)
}

func (f *fixture) jsonRequest(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return f.do(t, req)
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func jsonReader(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func passwordForm(login, password string) url.Values {
	return url.Values{
		"grant_type": {"password"},
		"username":   {login},
		"password":   {password},
	}
}
