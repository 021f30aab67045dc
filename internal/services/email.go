package services

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"

	"nexus-backend/internal/models"
)

type EmailService struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	devMode bool
}

func NewEmailService(host, port, user, pass, from string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Warn("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:    host,
		port:    port,
		user:    user,
		pass:    pass,
		from:    from,
		devMode: devMode,
	}
}

func (s *EmailService) SendInquiryNotification(to string, inq *models.Inquiry) error {
	subject := fmt.Sprintf("New inquiry from %s", inq.Name)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #0a0a0a;">
  <div style="max-width: 520px; margin: 40px auto; background: #121212; border-radius: 12px; overflow: hidden; color: white;">
    <div style="background: #4f46e5; padding: 24px 32px;">
      <h1 style="margin: 0; font-size: 20px; font-weight: 900; letter-spacing: -0.02em;">NEXUS. New Inquiry</h1>
    </div>
    <div style="padding: 32px; font-size: 14px; line-height: 1.6;">
      <p style="margin: 0 0 8px;"><strong>Name:</strong> %s</p>
      <p style="margin: 0 0 8px;"><strong>Email:</strong> %s</p>
      <p style="margin: 0 0 8px;"><strong>Received:</strong> %s</p>
      <p style="margin: 16px 0 0; white-space: pre-wrap; color: rgba(255,255,255,0.7);">%s</p>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(inq.Name),
		html.EscapeString(inq.Email),
		inq.CreatedAt.Format("2006-01-02 15:04 MST"),
		html.EscapeString(inq.Message),
	)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) SendInquiryReceipt(inq *models.Inquiry) error {
	subject := "We received your message"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #0a0a0a;">
  <div style="max-width: 480px; margin: 40px auto; background: #121212; border-radius: 12px; overflow: hidden; color: white;">
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px;">Message sent, %s.</h2>
      <p style="color: rgba(255,255,255,0.5); font-size: 14px; line-height: 1.6; margin: 0;">
        Our team will be in touch shortly. Meanwhile, Nexus Alpha is always on the site if you want a quick strategic take.
      </p>
    </div>
  </div>
</body>
</html>`, html.EscapeString(inq.Name))

	return s.sendHTML(inq.Email, subject, body)
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.WithFields(log.Fields{"to": to, "subject": subject}).Info("📧 [DEV EMAIL]")
		log.Debugf("📧 Body:\n%s", htmlBody)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.WithField("to", to).Infof("📧 Email sent: %s", subject)
	return nil
}
