package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"etatcivil/internal/models"
)

type EmailService interface {
	SendOTPEmail(email, code string) error
	SendDemandeStatusEmail(email, numero string, status models.StatusDemande, motif string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendOTPEmail(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Votre code OTP")

	body := fmt.Sprintf(`
		<p>Bonjour,</p>
		<p>Votre code OTP est : <strong>%s</strong></p>
		<p>Il expirera bientôt.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}

func (s *emailService) SendDemandeStatusEmail(email, numero string, status models.StatusDemande, motif string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Votre demande %s", numero))

	var body string
	switch status {
	case models.StatusValide:
		body = fmt.Sprintf(`
			<p>Bonjour,</p>
			<p>Votre demande <strong>%s</strong> a été validée.</p>
			<p>Le document est disponible auprès de votre centre d'état civil.</p>
		`, numero)
	case models.StatusRejete:
		body = fmt.Sprintf(`
			<p>Bonjour,</p>
			<p>Votre demande <strong>%s</strong> a été rejetée.</p>
			<p>Motif : %s</p>
		`, numero, motif)
	default:
		body = fmt.Sprintf(`
			<p>Bonjour,</p>
			<p>Votre demande <strong>%s</strong> est en cours de traitement.</p>
		`, numero)
	}

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send status email: %w", err)
	}

	return nil
}
