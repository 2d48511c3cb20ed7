package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// Dialer is the part of gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	cfg    Config
	dialer Dialer
}

func NewEmailSender(cfg Config) *EmailSender {
	return &EmailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// NewEmailSenderWithDialer is used by tests to capture outgoing messages.
func NewEmailSenderWithDialer(cfg Config, d Dialer) *EmailSender {
	return &EmailSender{cfg: cfg, dialer: d}
}

// Send delivers one message and returns its Message-ID. gomail has no context
// support, so cancellation abandons the wait but not the SMTP session.
func (s *EmailSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	messageID := fmt.Sprintf("<%s@ligue-crm>", uuid.New().String())

	if !s.cfg.Enabled {
		log.Info().Str("to", to).Str("subject", subject).Str("message_id", messageID).Msg("smtp disabled, email not sent")
		return messageID, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("send smtp email: %w", err)
		}
	case <-ctx.Done():
		return "", fmt.Errorf("send smtp email: %w", ctx.Err())
	}

	log.Info().Str("to", to).Str("message_id", messageID).Msg("email sent")
	return messageID, nil
}

func (s *EmailSender) SendCredentials(ctx context.Context, to, name, organizationName, password string) error {
	data := CredentialsEmailData{
		Name:             name,
		Email:            to,
		OrganizationName: organizationName,
		Password:         password,
		LoginURL:         s.cfg.LoginURL,
	}
	html, text, err := render("credentials", data)
	if err != nil {
		return err
	}
	_, err = s.Send(ctx, to, fmt.Sprintf("Your Ligue access for %s", organizationName), html, text)
	return err
}

func (s *EmailSender) SendDemoDecision(ctx context.Context, to, name string, approved bool) error {
	html, text, err := render("demo_decision", DemoDecisionEmailData{Name: name, Approved: approved})
	if err != nil {
		return err
	}
	subject := "Your demo request was approved"
	if !approved {
		subject = "About your demo request"
	}
	_, err = s.Send(ctx, to, subject, html, text)
	return err
}

func render(name string, data any) (string, string, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s.html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("render %s.txt: %w", name, err)
	}
	return html.String(), text.String(), nil
}
