package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendCheckinCode(toEmail, hotelName, code string, expiresAt time.Time) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Your check-in code for %s", hotelName)
	html := fmt.Sprintf(`
		<h2>Welcome to %s!</h2>
		<p>Your check-in code is: <strong style="font-size: 24px; color: #4CAF50;">%s</strong></p>
		<p>Use it to register and check in on StayLink. No password needed.</p>
		<p>This code expires on %s.</p>
	`, hotelName, code, expiresAt.Format("Monday, 2 January 2006"))

	text := fmt.Sprintf("Your check-in code for %s is: %s\n\nThis code expires on %s.",
		hotelName, code, expiresAt.Format("Monday, 2 January 2006"))

	return m.sendEmail(toEmail, "", subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
