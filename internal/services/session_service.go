package services

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

var (
	ErrClientNotFound  = errors.New("client non trouvé")
	ErrSessionNotFound = errors.New("session non trouvée")
)

const defaultSessionWindow = 2 * time.Hour

// SessionService drives the session state machine:
//
//	CREATED(inactive) → [OTP issued] → PENDING_ACTIVATION
//	                  → [OTP validated] → ACTIVE
//	                  → [expiry or supersede] → INACTIVE (terminal)
//
// A client has at most one live session; every path that could create a
// second one supersedes the others first.
type SessionService struct {
	Repo    repositories.SessionRepository
	Clients repositories.ClientRepository
	OTP     *OTPService

	Window time.Duration
	Secret []byte
	Now    func() time.Time
}

func NewSessionService(
	repo repositories.SessionRepository,
	clients repositories.ClientRepository,
	otp *OTPService,
	window time.Duration,
	secret []byte,
) *SessionService {
	if window <= 0 {
		window = defaultSessionWindow
	}
	return &SessionService{
		Repo:    repo,
		Clients: clients,
		OTP:     otp,
		Window:  window,
		Secret:  secret,
		Now:     time.Now,
	}
}

// CreateSession returns the client's live session unchanged when one exists
// (idempotent: repeated logins inside a valid window must not spam OTPs).
// Otherwise it supersedes every prior session and creates a fresh inactive
// one with a newly issued OTP. The reused flag tells the two cases apart.
func (s *SessionService) CreateSession(clientID int) (*models.Session, bool, error) {
	now := s.Now()

	client, err := s.Clients.GetByID(clientID)
	if err != nil {
		return nil, false, err
	}
	if client == nil {
		return nil, false, ErrClientNotFound
	}

	live, err := s.Repo.GetLiveByClient(clientID, now)
	if err != nil {
		return nil, false, err
	}
	if live != nil {
		log.Printf("[session][create] reuse: client=%d session=%d expires_at=%s",
			clientID, live.ID, live.ExpiresAt.Format(time.RFC3339))
		return live, true, nil
	}

	if _, err := s.Repo.SupersedeAllByClient(clientID, now.Add(-supersedeOffset)); err != nil {
		return nil, false, err
	}

	// Provisional expiry; ActivateSession recomputes it on the
	// inactive→active transition.
	session := &models.Session{
		ClientID:  clientID,
		IsActive:  false,
		ExpiresAt: now,
	}
	if err := s.Repo.Create(session); err != nil {
		return nil, false, err
	}

	if _, _, err := s.OTP.IssueOTP(session.ID); err != nil {
		// Never leave an orphan session with no valid OTP behind.
		if delErr := s.Repo.Delete(session.ID); delErr != nil {
			log.Printf("[session][create] rollback failed: session=%d: %v", session.ID, delErr)
		}
		return nil, false, err
	}

	log.Printf("[session][create] new: client=%d session=%d", clientID, session.ID)
	return session, false, nil
}

// ActivateSession validates the OTP and flips the session active. The token
// is minted only on the inactive→active transition; re-activating an
// already-live session succeeds idempotently without a token.
func (s *SessionService) ActivateSession(sessionID int, otpCode string) (*models.Session, string, error) {
	now := s.Now()

	session, err := s.Repo.GetByID(sessionID)
	if err != nil {
		return nil, "", err
	}
	if session == nil {
		return nil, "", ErrSessionNotFound
	}

	if _, err := s.OTP.ValidateOTP(sessionID, otpCode); err != nil {
		return nil, "", err
	}

	if session.IsLive(now) {
		log.Printf("[session][activate] already live: session=%d", sessionID)
		return session, "", nil
	}

	// Defense in depth: CreateSession already superseded siblings, but a
	// concurrent create may have slipped a session in since.
	if _, err := s.Repo.SupersedeAllByClient(session.ClientID, now.Add(-supersedeOffset)); err != nil {
		return nil, "", err
	}

	expiresAt := now.Add(s.Window)
	// Last write before returning: the deactivate-then-activate order is
	// what keeps two sessions from being live at once.
	if err := s.Repo.Activate(sessionID, expiresAt); err != nil {
		return nil, "", err
	}
	session.IsActive = true
	session.ExpiresAt = expiresAt

	client, err := s.Clients.GetByID(session.ClientID)
	if err != nil {
		return nil, "", err
	}

	token := ""
	if client != nil {
		if subject := client.Identifier(); subject != "" {
			token, err = s.generateToken(subject, expiresAt)
			if err != nil {
				return nil, "", err
			}
		}
	}

	log.Printf("[session][activate] ok: session=%d client=%d expires_at=%s",
		sessionID, session.ClientID, expiresAt.Format(time.RFC3339))
	return session, token, nil
}

// DeactivateAllSessions force-expires every active session of the client.
func (s *SessionService) DeactivateAllSessions(clientID int) (int64, error) {
	return s.Repo.SupersedeAllByClient(clientID, s.Now().Add(-supersedeOffset))
}

// generateToken signs a JWT bound to the client identifier and the session
// expiry.
func (s *SessionService) generateToken(subject string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

func (s *SessionService) GetSessionByID(id int) (*models.Session, error) {
	return s.Repo.GetByID(id)
}

func (s *SessionService) ListSessions() ([]*models.Session, error) {
	return s.Repo.List()
}

// GroupedSessions splits a client's history by current state.
type GroupedSessions struct {
	Actives   []*models.Session `json:"actives"`
	Expirees  []*models.Session `json:"expirees"`
	Inactives []*models.Session `json:"inactives"`
}

func (s *SessionService) GetSessionsByClient(clientID int) (*GroupedSessions, error) {
	sessions, err := s.Repo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	g := &GroupedSessions{}
	for _, session := range sessions {
		switch {
		case session.IsLive(now):
			g.Actives = append(g.Actives, session)
		case !session.IsActive:
			g.Inactives = append(g.Inactives, session)
		default:
			g.Expirees = append(g.Expirees, session)
		}
	}
	return g, nil
}

func (s *SessionService) DeleteSession(id int) error {
	session, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.OTP.Repo.DeleteBySession(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
