package mailer

import (
	"fmt"
	"time"

	"github.com/staylink/staylink-backend/pkg/logger"
)

type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendCheckinCode(toEmail, hotelName, code string, expiresAt time.Time) error {
	logger.Info("📧 [DEV MAIL] Check-in Code Email",
		"to", toEmail,
		"hotel", hotelName,
		"code", code,
		"expires_at", expiresAt,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 CHECK-IN CODE EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s\n"+
		"Subject: Your check-in code for %s\n"+
		"\n"+
		"Check-in Code: %s\n"+
		"Expires: %s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		toEmail, hotelName, code, expiresAt.Format(time.RFC1123))

	return nil
}
