package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etatcivil/internal/models"
)

func strPtr(s string) *string { return &s }

type sessionFixture struct {
	clients  *fakeClientRepo
	sessions *fakeSessionRepo
	otps     *fakeOTPRepo
	emails   *fakeEmailService
	svc      *SessionService
	now      time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		clients:  newFakeClientRepo(),
		sessions: newFakeSessionRepo(),
		otps:     newFakeOTPRepo(),
		emails:   &fakeEmailService{},
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	otpSvc := NewOTPService(f.otps, f.sessions, f.clients, f.emails, 70*time.Minute)
	otpSvc.Now = func() time.Time { return f.now }
	f.svc = NewSessionService(f.sessions, f.clients, otpSvc, 2*time.Hour, []byte("secret-test"))
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func (f *sessionFixture) addClient(t *testing.T, email string) *models.Client {
	t.Helper()
	c := &models.Client{Email: strPtr(email)}
	require.NoError(t, f.clients.Create(c))
	return c
}

func TestCreateSessionUnknownClient(t *testing.T) {
	f := newSessionFixture(t)

	_, _, err := f.svc.CreateSession(42)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestCreateSessionIssuesOTP(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	session, reused, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.False(t, session.IsActive)
	assert.Equal(t, client.ID, session.ClientID)

	otp, err := f.otps.GetCurrentBySession(session.ID)
	require.NoError(t, err)
	require.NotNil(t, otp)
	assert.Len(t, otp.Code, 5)
	assert.Equal(t, f.now.Add(70*time.Minute), otp.ExpiresAt)
	assert.Len(t, f.emails.otpSent, 1)
}

func TestCreateSessionReusesLiveSession(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	first, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	activateFixture(t, f, first.ID)

	second, reused, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.ID, second.ID)
	// Re-login inside the window must not re-issue an OTP.
	assert.Len(t, f.emails.otpSent, 1)
}

func TestCreateSessionSupersedesStaleActive(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	first, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	activateFixture(t, f, first.ID)

	// Past the session window the active row is stale, not live.
	f.now = f.now.Add(3 * time.Hour)

	second, reused, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, first.ID, second.ID)

	old, err := f.sessions.GetByID(first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	assert.True(t, old.ExpiresAt.Before(f.now))
}

func TestCreateSessionRollsBackOnOTPFailure(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")
	f.otps.createErr = errors.New("insert failed")

	_, _, err := f.svc.CreateSession(client.ID)
	require.Error(t, err)

	// The orphan session must be deleted, not left pending forever.
	assert.Len(t, f.sessions.deleted, 1)
	assert.Empty(t, f.sessions.sessions)
}

func TestActivateSessionMintsTokenOnce(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	session, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	otp, err := f.otps.GetCurrentBySession(session.ID)
	require.NoError(t, err)

	activated, token, err := f.svc.ActivateSession(session.ID, otp.Code)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.Equal(t, f.now.Add(2*time.Hour), activated.ExpiresAt)
	require.NotEmpty(t, token)

	claims := &jwt.RegisteredClaims{}
	// Validate expiry against the fixture clock, not the wall clock.
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret-test"), nil
	}, jwt.WithTimeFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "mballa@example.cm", claims.Subject)
	assert.Equal(t, activated.ExpiresAt.Unix(), claims.ExpiresAt.Unix())

	// Replaying a still-valid OTP succeeds but returns no second token.
	again, token2, err := f.svc.ActivateSession(session.ID, otp.Code)
	require.NoError(t, err)
	assert.True(t, again.IsActive)
	assert.Empty(t, token2)
}

func TestActivateSessionRejectsWrongCode(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	session, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)

	_, _, err = f.svc.ActivateSession(session.ID, "00000")
	assert.ErrorIs(t, err, ErrOTPInvalid)

	stored, err := f.sessions.GetByID(session.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestActivateSessionUnknownSession(t *testing.T) {
	f := newSessionFixture(t)

	_, _, err := f.svc.ActivateSession(99, "12345")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestActivateSessionSupersedesSiblings(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	// A concurrent create can leave a second active row behind; activation
	// must force it out before flipping its own.
	stale := &models.Session{ClientID: client.ID, IsActive: true, ExpiresAt: f.now.Add(time.Minute)}
	require.NoError(t, f.sessions.Create(stale))

	session, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	// CreateSession saw the stale live row and reused it, so force a fresh one.
	_, err = f.sessions.SupersedeAllByClient(client.ID, f.now.Add(-time.Minute))
	require.NoError(t, err)
	session, _, err = f.svc.CreateSession(client.ID)
	require.NoError(t, err)

	otp, err := f.otps.GetCurrentBySession(session.ID)
	require.NoError(t, err)
	_, _, err = f.svc.ActivateSession(session.ID, otp.Code)
	require.NoError(t, err)

	var liveCount int
	for _, s := range f.sessions.sessions {
		if s.IsLive(f.now) {
			liveCount++
		}
	}
	assert.Equal(t, 1, liveCount)
}

func TestDeactivateAllSessions(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	session, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)
	activateFixture(t, f, session.ID)

	n, err := f.svc.DeactivateAllSessions(client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := f.sessions.GetByID(session.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsLive(f.now))
}

func TestGetSessionsByClientGrouping(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	live := &models.Session{ClientID: client.ID, IsActive: true, ExpiresAt: f.now.Add(time.Hour)}
	expired := &models.Session{ClientID: client.ID, IsActive: true, ExpiresAt: f.now.Add(-time.Hour)}
	inactive := &models.Session{ClientID: client.ID, IsActive: false, ExpiresAt: f.now.Add(time.Hour)}
	for _, s := range []*models.Session{live, expired, inactive} {
		require.NoError(t, f.sessions.Create(s))
	}

	g, err := f.svc.GetSessionsByClient(client.ID)
	require.NoError(t, err)
	require.Len(t, g.Actives, 1)
	require.Len(t, g.Expirees, 1)
	require.Len(t, g.Inactives, 1)
	assert.Equal(t, live.ID, g.Actives[0].ID)
	assert.Equal(t, expired.ID, g.Expirees[0].ID)
	assert.Equal(t, inactive.ID, g.Inactives[0].ID)
}

func TestDeleteSessionNotFound(t *testing.T) {
	f := newSessionFixture(t)

	err := f.svc.DeleteSession(7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSessionPurgesOTPs(t *testing.T) {
	f := newSessionFixture(t)
	client := f.addClient(t, "mballa@example.cm")

	session, _, err := f.svc.CreateSession(client.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSession(session.ID))

	gone, err := f.sessions.GetByID(session.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	otp, err := f.otps.GetCurrentBySession(session.ID)
	require.NoError(t, err)
	assert.Nil(t, otp)
}

// activateFixture walks a session through OTP validation to the live state.
func activateFixture(t *testing.T, f *sessionFixture, sessionID int) {
	t.Helper()
	otp, err := f.otps.GetCurrentBySession(sessionID)
	require.NoError(t, err)
	require.NotNil(t, otp)
	_, _, err = f.svc.ActivateSession(sessionID, otp.Code)
	require.NoError(t, err)
}
