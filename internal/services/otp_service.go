package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

var (
	ErrOTPNotFound = errors.New("otp non trouvé")
	ErrOTPInvalid  = errors.New("otp invalide")
	ErrOTPExpired  = errors.New("otp expiré")
)

const (
	defaultOTPWindow = 70 * time.Minute

	// supersedeOffset is how far into the past a superseded OTP or session
	// expiry is pushed. Not exactly "now": a small margin avoids boundary
	// races with concurrent expiry reads.
	supersedeOffset = 20 * time.Second

	otpCodeMin  = 10000
	otpCodeSpan = 90000
)

// Messages returned alongside an issued OTP; delivery failures degrade the
// message but never fail issuance, the code is already persisted and can be
// re-fetched through the resend endpoint.
const (
	MsgOTPSent       = "OTP généré et email envoyé avec succès"
	MsgOTPSendFailed = "OTP généré mais échec de l'envoi de l'email"
	MsgOTPNoEmail    = "OTP généré, aucun email trouvé pour l'envoi"
)

type OTPService struct {
	Repo     repositories.OTPRepository
	Sessions repositories.SessionRepository
	Clients  repositories.ClientRepository
	Emails   EmailService

	Window time.Duration
	Now    func() time.Time
}

func NewOTPService(
	repo repositories.OTPRepository,
	sessions repositories.SessionRepository,
	clients repositories.ClientRepository,
	emails EmailService,
	window time.Duration,
) *OTPService {
	if window <= 0 {
		window = defaultOTPWindow
	}
	return &OTPService{
		Repo:     repo,
		Sessions: sessions,
		Clients:  clients,
		Emails:   emails,
		Window:   window,
		Now:      time.Now,
	}
}

// generateCode draws a 5-digit code uniformly from 10000..99999.
func (s *OTPService) generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%05d", n.Int64()+otpCodeMin), nil
}

// clientEmailBySession resolves the notification address through the
// session→client relation; empty when the client registered phone-only.
func (s *OTPService) clientEmailBySession(sessionID int) (string, error) {
	sess, err := s.Sessions.GetByID(sessionID)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", ErrSessionNotFound
	}
	client, err := s.Clients.GetByID(sess.ClientID)
	if err != nil {
		return "", err
	}
	if client == nil || client.Email == nil {
		return "", nil
	}
	return *client.Email, nil
}

// IssueOTP expires any prior OTP of the session, persists a fresh code and
// attempts email delivery. The returned message conveys the delivery outcome.
func (s *OTPService) IssueOTP(sessionID int) (*models.OTP, string, error) {
	now := s.Now()

	email, err := s.clientEmailBySession(sessionID)
	if err != nil {
		return nil, "", err
	}

	// Expire, never delete: validation checks expiry, and the rows stay
	// auditable. There is no instant with two live codes.
	if err := s.Repo.ExpireAllBySession(sessionID, now.Add(-supersedeOffset)); err != nil {
		return nil, "", err
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, "", err
	}

	otp := &models.OTP{
		SessionID: sessionID,
		Code:      code,
		ExpiresAt: now.Add(s.Window),
	}
	if err := s.Repo.Create(otp); err != nil {
		return nil, "", err
	}

	message := MsgOTPNoEmail
	if email != "" {
		if err := s.Emails.SendOTPEmail(email, code); err != nil {
			log.Printf("[otp][issue] warning: failed to send email for session=%d: %v", sessionID, err)
			message = MsgOTPSendFailed
		} else {
			message = MsgOTPSent
		}
	}

	log.Printf("[otp][issue] session=%d expires_at=%s delivery=%q", sessionID, otp.ExpiresAt.Format(time.RFC3339), message)
	return otp, message, nil
}

// ValidateOTP checks the submitted code against the session's current OTP.
// Read-only: a still-valid code stays valid until it expires naturally or a
// new issuance supersedes it.
func (s *OTPService) ValidateOTP(sessionID int, submitted string) (*models.OTP, error) {
	otp, err := s.Repo.GetCurrentBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrOTPNotFound
	}
	if otp.Code != submitted {
		return nil, ErrOTPInvalid
	}
	// now >= expires_at counts as expired, equality included.
	if !otp.ExpiresAt.After(s.Now()) {
		return nil, ErrOTPExpired
	}
	return otp, nil
}

// GetCurrentOTP returns the session's current OTP row, ErrOTPNotFound
// when none was ever issued.
func (s *OTPService) GetCurrentOTP(sessionID int) (*models.OTP, error) {
	otp, err := s.Repo.GetCurrentBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrOTPNotFound
	}
	return otp, nil
}
