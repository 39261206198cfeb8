package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// InvitationHTML renders the partnership invite body. The personal message is
// escaped here; rich-text sanitization beyond that belongs to the UI layer.
func InvitationHTML(inviteeName, companyName, message, acceptLink string) string {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>You have been invited to join the partner network of <b>%s</b>.</p>`,
		html.EscapeString(inviteeName), html.EscapeString(companyName))
	if message != "" {
		body += fmt.Sprintf(`<blockquote>%s</blockquote>`, html.EscapeString(message))
	}
	body += fmt.Sprintf(`<p><a href="%s">View your invitation</a></p>`, acceptLink)
	return body
}
