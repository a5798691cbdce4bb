package service

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/uaa/internal/uaa/mail"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite"
	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// cheap parameters so the suite stays fast
var testHasher = cryptox.NewPasswordHasher("test-pepper", cryptox.Argon2Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
})

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

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

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}
