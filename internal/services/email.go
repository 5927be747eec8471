package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/dimitrije/squadup/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := buildMessage(s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, body)
}

func teamRequestEmail(teamName, playerName, requestsURL string) (subject, body string) {
	subject = fmt.Sprintf("New join request for %s", teamName)
	body = fmt.Sprintf(`
		<html>
		<body>
			<h2>New Join Request</h2>
			<p><strong>%s</strong> wants to join <strong>%s</strong>.</p>
			<p><a href="%s">Review pending requests</a></p>
		</body>
		</html>
	`, html.EscapeString(playerName), html.EscapeString(teamName), requestsURL)
	return subject, body
}

func feedbackEmail(rating int, profileURL string) (subject, body string) {
	subject = "You received new feedback"
	body = fmt.Sprintf(`
		<html>
		<body>
			<h2>New Feedback</h2>
			<p>Someone rated you <strong>%d/5</strong>.</p>
			<p><a href="%s">See your feedback</a></p>
		</body>
		</html>
	`, rating, profileURL)
	return subject, body
}

func (s *EmailService) SendTeamRequestNotification(to, teamName, playerName, requestsURL string) error {
	subject, body := teamRequestEmail(teamName, playerName, requestsURL)
	return s.Send(to, subject, body)
}

func (s *EmailService) SendFeedbackNotification(to string, rating int, profileURL string) error {
	subject, body := feedbackEmail(rating, profileURL)
	return s.Send(to, subject, body)
}
