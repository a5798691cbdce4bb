package mail

import (
	"context"
	"fmt"
	netmail "net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridProvider sends through the SendGrid v3 mail API.
type SendGridProvider struct {
	apiKey string
	host   string
}

// NewSendGridProvider targets host, or the public SendGrid API when host
// is empty.
func NewSendGridProvider(apiKey, host string) *SendGridProvider {
	return &SendGridProvider{apiKey: apiKey, host: host}
}

// Send treats any non-2xx response as an error. The response body is
// included since SendGrid puts the reason there.
func (p *SendGridProvider) Send(ctx context.Context, m Message) error {
	from := sgmail.NewEmail("", m.From)
	if addr, err := netmail.ParseAddress(m.From); err == nil {
		from = sgmail.NewEmail(addr.Name, addr.Address)
	}
	to := sgmail.NewEmail(m.ToName, m.To)

	body := sgmail.NewV3MailInit(from, m.Subject, to, sgmail.NewContent("text/html", m.HTML))

	// A fresh request per send: the SDK's Client mutates its embedded
	// request and cannot be shared between workers.
	req := sendgrid.GetRequest(p.apiKey, sendGridEndpoint, p.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(body)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
