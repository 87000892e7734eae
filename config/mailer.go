package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// MailEnabled reports whether SMTP settings are present.
func MailEnabled() bool {
	return App != nil && App.SMTP.Host != "" && App.SMTP.From != ""
}

func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !MailEnabled() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}
	smtp := App.SMTP

	m := mail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// ServerName must match the SMTP hostname unless verification is skipped (dev only).
	d.TLSConfig = &tls.Config{
		ServerName:         smtp.Host,
		InsecureSkipVerify: smtp.SkipTLSVerify,
	}

	return d.DialAndSend(m)
}
