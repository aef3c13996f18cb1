package mail

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"github.com/devhire/backend/internal/config"
	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer delivers transactional mail. Delivery is attempted once; the
// caller decides what a failure means for the request.
type Mailer interface {
	Send(ctx context.Context, to, subject, templateName string, data any) error
}

type smtpMailer struct {
	host      string
	port      int
	user      string
	pass      string
	from      string
	templates *template.Template
}

func NewSMTPMailer(cfg *config.Config) (*smtpMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &smtpMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		user:      cfg.SMTPUser,
		pass:      cfg.SMTPPass,
		from:      cfg.MailFrom,
		templates: tmpl,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, templateName string, data any) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body.String())

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.user),
		gomail.WithPassword(m.pass),
	)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}
