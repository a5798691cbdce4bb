// Package mail renders and delivers transactional email from a bounded
// background queue. Delivery is best effort: failures are logged and
// counted, never returned to the code that asked for the mail.
package mail

import "time"

// Template names, resolved to templates/<name>.html.
const (
	TemplateActivation    = "activationEmail"
	TemplateCreation      = "creationEmail"
	TemplatePasswordReset = "passwordResetEmail"
)

// Message keys used as subjects.
const (
	TitleActivation = "email.activation.title"
	TitleReset      = "email.reset.title"
)

// User is the snapshot of an account a mail is rendered for. Key is the
// plaintext activation or reset key embedded in links, if any.
type User struct {
	Login     string `json:"login"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	LangKey   string `json:"lang_key,omitempty"`
	Key       string `json:"key,omitempty"`
}

// Job is one queued mail.
type Job struct {
	ID         string    `json:"id"`
	Template   string    `json:"template"`
	TitleKey   string    `json:"title_key"`
	User       User      `json:"user"`
	BaseURL    string    `json:"base_url"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
