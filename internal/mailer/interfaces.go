package mailer

import "time"

type Service interface {
	SendCheckinCode(toEmail, hotelName, code string, expiresAt time.Time) error
}
