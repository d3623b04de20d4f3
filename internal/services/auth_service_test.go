package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etatcivil/internal/models"
)

type fakeUtilisateurRepo struct {
	users  map[int]*models.Utilisateur
	nextID int
}

func newFakeUtilisateurRepo() *fakeUtilisateurRepo {
	return &fakeUtilisateurRepo{users: map[int]*models.Utilisateur{}}
}

func (r *fakeUtilisateurRepo) Create(u *models.Utilisateur) error {
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUtilisateurRepo) GetByID(id int) (*models.Utilisateur, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUtilisateurRepo) GetByEmail(email string) (*models.Utilisateur, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUtilisateurRepo) List(limit, offset int) ([]*models.Utilisateur, error) { return nil, nil }

func (r *fakeUtilisateurRepo) ListByCentre(centreID int) ([]*models.Utilisateur, error) {
	var res []*models.Utilisateur
	for _, u := range r.users {
		if u.CentreID != nil && *u.CentreID == centreID {
			cp := *u
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *fakeUtilisateurRepo) ListByOrganisation(organisationID int) ([]*models.Utilisateur, error) {
	return nil, nil
}

func (r *fakeUtilisateurRepo) Update(u *models.Utilisateur) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUtilisateurRepo) UpdateStatus(id int, status models.StatusCompte) error {
	if u, ok := r.users[id]; ok {
		u.Status = status
	}
	return nil
}

func (r *fakeUtilisateurRepo) AffecterCentre(userID, centreID, affecteParID int, at time.Time) error {
	if u, ok := r.users[userID]; ok {
		u.CentreID = &centreID
		u.AffecteParID = &affecteParID
		u.DateAffectation = &at
	}
	return nil
}

func (r *fakeUtilisateurRepo) UpdateTelegramChat(userID int, chatID *int64) error {
	if u, ok := r.users[userID]; ok {
		u.TelegramChatID = chatID
	}
	return nil
}

func (r *fakeUtilisateurRepo) Delete(id int) error {
	delete(r.users, id)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUtilisateurRepo) {
	t.Helper()
	users := newFakeUtilisateurRepo()
	svc := NewAuthService(users, nil, []byte("secret-test"), 2*time.Hour)
	return svc, users
}

func addStaff(t *testing.T, users *fakeUtilisateurRepo, email, password string, status models.StatusCompte) *models.Utilisateur {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.Utilisateur{
		Nom:            "Essomba",
		Prenom:         "Pauline",
		Email:          email,
		MotDePasseHash: hash,
		Status:         status,
		RoleID:         2,
		OrganisationID: 1,
	}
	require.NoError(t, users.Create(u))
	return u
}

func TestLoginReturnsSignedClaims(t *testing.T) {
	svc, users := newAuthFixture(t)
	staff := addStaff(t, users, "essomba@bunec.cm", "motdepasse8", models.CompteActif)

	token, user, err := svc.Login(models.LoginRequest{Email: staff.Email, MotDePasse: "motdepasse8"})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, user.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, claims.UserID)
	assert.Equal(t, staff.RoleID, claims.RoleID)
	assert.Equal(t, staff.Email, claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users := newAuthFixture(t)
	staff := addStaff(t, users, "essomba@bunec.cm", "motdepasse8", models.CompteActif)

	_, _, err := svc.Login(models.LoginRequest{Email: staff.Email, MotDePasse: "autre"})
	assert.ErrorIs(t, err, ErrIdentifiantsInvalides)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newAuthFixture(t)

	// Unknown email and wrong password must be indistinguishable.
	_, _, err := svc.Login(models.LoginRequest{Email: "inconnu@bunec.cm", MotDePasse: "motdepasse8"})
	assert.ErrorIs(t, err, ErrIdentifiantsInvalides)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, users := newAuthFixture(t)
	staff := addStaff(t, users, "essomba@bunec.cm", "motdepasse8", models.CompteInactif)

	_, _, err := svc.Login(models.LoginRequest{Email: staff.Email, MotDePasse: "motdepasse8"})
	assert.ErrorIs(t, err, ErrCompteInactif)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc, users := newAuthFixture(t)
	staff := addStaff(t, users, "essomba@bunec.cm", "motdepasse8", models.CompteActif)

	token, _, err := svc.Login(models.LoginRequest{Email: staff.Email, MotDePasse: "motdepasse8"})
	require.NoError(t, err)

	_, err = svc.ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalide)

	other := NewAuthService(users, nil, []byte("autre-secret"), 2*time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalide)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc, _ := newAuthFixture(t)

	claims := StaffClaims{
		UserID: 1,
		RoleID: 2,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "essomba@bunec.cm",
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-test"))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalide)
}

func TestLogoutRejectsForgedToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	err := svc.Logout(context.Background(), "pas-un-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalide)
}

func TestIsRevokedWithoutBlacklist(t *testing.T) {
	svc, _ := newAuthFixture(t)

	// No Redis wired: nothing is ever considered revoked.
	revoked, err := svc.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
