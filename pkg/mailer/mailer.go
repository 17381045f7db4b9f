package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer defines contract for the outgoing mail side channel.
// Delivery is best-effort: callers fire it in a goroutine and never block on it.
type Mailer interface {
	SendWelcome(to, fullName string)
	SendLoginAlert(to, fullName string)
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a Mailer from SMTP_* environment variables.
// Returns a no-op mailer when SMTP_HOST is unset so local setups work without a mail server.
func NewSMTPMailer() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email notifications disabled")
		return &noopMailer{}
	}

	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@ecotrack.local"
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")),
		from:   from,
	}
}

func (m *smtpMailer) SendWelcome(to, fullName string) {
	body := fmt.Sprintf("Hi %s,<br><br>Welcome to EcoTrack! Report waste issues, follow collection schedules and earn eco-points for keeping your city clean.", fullName)
	m.send(to, "Welcome to EcoTrack", body)
}

func (m *smtpMailer) SendLoginAlert(to, fullName string) {
	body := fmt.Sprintf("Hi %s,<br><br>A new login to your EcoTrack account was detected. If this wasn't you, please reset your password.", fullName)
	m.send(to, "New login to your EcoTrack account", body)
}

// send delivers a single message. Failures are logged and swallowed: email is a
// side channel, never core functionality.
func (m *smtpMailer) send(to, subject, htmlBody string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("failed to send email %q to %s: %v", subject, to, err)
	}
}

type noopMailer struct{}

func (n *noopMailer) SendWelcome(to, fullName string)    {}
func (n *noopMailer) SendLoginAlert(to, fullName string) {}
