package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"etatcivil/internal/models"
)

type OTPRepository interface {
	Create(otp *models.OTP) error
	// GetCurrentBySession returns the most recently issued OTP for the
	// session, expired or not, or nil when none exists.
	GetCurrentBySession(sessionID int) (*models.OTP, error)
	// ExpireAllBySession pushes expires_at of every OTP of the session to the
	// given past instant. Rows are expired, never deleted, so the issuance
	// history stays auditable.
	ExpireAllBySession(sessionID int, expiresAt time.Time) error
	DeleteBySession(sessionID int) error
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) Create(otp *models.OTP) error {
	const q = `
		INSERT INTO otps (session_id, otp_code, created_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, otp.SessionID, otp.Code, otp.ExpiresAt).Scan(&otp.ID, &otp.CreatedAt); err != nil {
		return fmt.Errorf("create otp: %w", err)
	}
	return nil
}

func (r *otpRepository) GetCurrentBySession(sessionID int) (*models.OTP, error) {
	const q = `
		SELECT id, session_id, otp_code, created_at, expires_at
		FROM otps
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var o models.OTP
	if err := r.DB.QueryRow(q, sessionID).Scan(&o.ID, &o.SessionID, &o.Code, &o.CreatedAt, &o.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &o, nil
}

func (r *otpRepository) ExpireAllBySession(sessionID int, expiresAt time.Time) error {
	const q = `
		UPDATE otps
		SET expires_at = $2
		WHERE session_id = $1 AND expires_at > $2
	`
	if _, err := r.DB.Exec(q, sessionID, expiresAt); err != nil {
		return fmt.Errorf("expire otps: %w", err)
	}
	return nil
}

func (r *otpRepository) DeleteBySession(sessionID int) error {
	if _, err := r.DB.Exec(`DELETE FROM otps WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete otps: %w", err)
	}
	return nil
}
