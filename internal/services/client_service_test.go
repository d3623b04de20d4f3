package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etatcivil/internal/models"
)

func newClientFixture(t *testing.T) (*ClientService, *sessionFixture) {
	t.Helper()
	f := newSessionFixture(t)
	return NewClientService(f.clients, f.svc), f
}

func TestCreateClientAndSessionNewClient(t *testing.T) {
	svc, f := newClientFixture(t)

	client, session, created, reused, err := svc.CreateClientAndSession(models.ClientCreateRequest{
		Email: " fotso@example.cm ",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, reused)
	require.NotNil(t, client.Email)
	assert.Equal(t, "fotso@example.cm", *client.Email)
	assert.Nil(t, client.Phone)
	assert.Equal(t, client.ID, session.ClientID)
	assert.Len(t, f.emails.otpSent, 1)
}

func TestCreateClientAndSessionExistingEmail(t *testing.T) {
	svc, _ := newClientFixture(t)

	first, _, _, _, err := svc.CreateClientAndSession(models.ClientCreateRequest{Email: "fotso@example.cm"})
	require.NoError(t, err)

	second, _, created, _, err := svc.CreateClientAndSession(models.ClientCreateRequest{Email: "fotso@example.cm"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateClientAndSessionMatchesByPhone(t *testing.T) {
	svc, _ := newClientFixture(t)

	first, _, _, _, err := svc.CreateClientAndSession(models.ClientCreateRequest{Phone: "+237699001122"})
	require.NoError(t, err)

	// Same phone plus a new email still resolves to the existing client.
	second, _, created, _, err := svc.CreateClientAndSession(models.ClientCreateRequest{
		Email: "nouveau@example.cm",
		Phone: "+237699001122",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateClientAndSessionRequiresContact(t *testing.T) {
	svc, _ := newClientFixture(t)

	_, _, _, _, err := svc.CreateClientAndSession(models.ClientCreateRequest{Email: "  ", Phone: ""})
	assert.ErrorIs(t, err, ErrClientContactRequired)
}

func TestCreateClientAndSessionReusesLiveSession(t *testing.T) {
	svc, f := newClientFixture(t)

	client, session, _, _, err := svc.CreateClientAndSession(models.ClientCreateRequest{Email: "fotso@example.cm"})
	require.NoError(t, err)
	activateFixture(t, f, session.ID)

	_, again, _, reused, err := svc.CreateClientAndSession(models.ClientCreateRequest{Email: "fotso@example.cm"})
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, session.ID, again.ID)
	assert.Equal(t, client.ID, again.ClientID)
}

func TestGetClientByIDNotFound(t *testing.T) {
	svc, _ := newClientFixture(t)

	_, err := svc.GetClientByID(12)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestDeleteClientNotFound(t *testing.T) {
	svc, _ := newClientFixture(t)

	err := svc.DeleteClient(12)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
