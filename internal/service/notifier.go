package service

import (
	"github.com/derintolu/frs-partner-network/internal/pkg"
)

// Notifier delivers invitation emails. Delivery failures never roll back the
// partnership write; callers log and move on.
type Notifier interface {
	SendInvitation(email, name, companyName, message, acceptLink string) error
}

// SMTPNotifier sends through gomail.
type SMTPNotifier struct {
	cfg pkg.SMTPConfig
}

func NewSMTPNotifier(cfg pkg.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendInvitation(email, name, companyName, message, acceptLink string) error {
	subject := "You have been invited to join " + companyName
	html := pkg.InvitationHTML(name, companyName, message, acceptLink)
	return pkg.SendEmail(n.cfg, email, subject, html)
}
