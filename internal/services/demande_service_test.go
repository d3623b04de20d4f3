package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etatcivil/internal/models"
)

var identiteDetails = json.RawMessage(`{
	"prenom": "Amina",
	"nom": "Njoya",
	"sexe": "F",
	"date_naissance": "1992-06-14T00:00:00Z",
	"lieu_naissance": "Douala"
}`)

type demandeFixture struct {
	demandes *fakeDemandeRepo
	clients  *fakeClientRepo
	agents   *fakeUtilisateurRepo
	emails   *fakeEmailService
	svc      *DemandeService
	now      time.Time
}

func newDemandeFixture(t *testing.T) *demandeFixture {
	t.Helper()
	f := &demandeFixture{
		demandes: newFakeDemandeRepo(),
		clients:  newFakeClientRepo(),
		agents:   newFakeUtilisateurRepo(),
		emails:   &fakeEmailService{},
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewDemandeService(f.demandes, f.clients, f.agents, nil, nil, f.emails, nil)
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func (f *demandeFixture) addClient(t *testing.T) *models.Client {
	t.Helper()
	c := &models.Client{Email: strPtr("njoya@example.cm")}
	require.NoError(t, f.clients.Create(c))
	return c
}

func (f *demandeFixture) createRequest(clientID int) models.DemandeCreateRequest {
	return models.DemandeCreateRequest{
		ClientID:      clientID,
		TypeDocument:  models.CertificatNationalite,
		RaisonDemande: models.RaisonVisa,
		Details:       identiteDetails,
	}
}

func TestNumeroPrefixFor(t *testing.T) {
	day := time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "P0-20260901-", NumeroPrefixFor(day))
}

func TestGenerateNumeroStartsAtOne(t *testing.T) {
	f := newDemandeFixture(t)

	numero, err := f.svc.GenerateNumero()
	require.NoError(t, err)
	assert.Equal(t, "P0-20250310-00001", numero)
}

func TestGenerateNumeroIncrementsWithinDay(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	for i := 1; i <= 3; i++ {
		d, err := f.svc.CreateDemande(f.createRequest(client.ID))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("P0-20250310-%05d", i), d.NumeroDemande)
	}
}

func TestGenerateNumeroResetsNextDay(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	_, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	f.now = f.now.Add(24 * time.Hour)
	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)
	assert.Equal(t, "P0-20250311-00001", d.NumeroDemande)
}

func TestGenerateNumeroUsesUTCDay(t *testing.T) {
	f := newDemandeFixture(t)
	// 01:00 on March 11 in UTC+11 is still March 10 in UTC; the numero
	// must carry the UTC date whatever zone the server clock reports.
	f.now = time.Date(2025, 3, 11, 1, 0, 0, 0, time.FixedZone("UTC+11", 11*3600))

	numero, err := f.svc.GenerateNumero()
	require.NoError(t, err)
	assert.Equal(t, "P0-20250310-00001", numero)
}

func TestCreateDemandeStartsEnCours(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnCours, d.Status)
	assert.Nil(t, d.CentreID)
	assert.Nil(t, d.MotifRejet)
}

func TestCreateDemandeRetriesOnNumeroCollision(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	// Two concurrent writers lost the race; the third insert lands.
	f.demandes.createFailures = 2
	f.demandes.createErr = &pq.Error{Code: "23505"}

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, d.NumeroDemande)
}

func TestCreateDemandeExhaustsRetries(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	f.demandes.createFailures = numeroCreateRetries
	f.demandes.createErr = &pq.Error{Code: "23505"}

	_, err := f.svc.CreateDemande(f.createRequest(client.ID))
	assert.ErrorIs(t, err, ErrNumeroExhausted)
}

func TestCreateDemandeDoesNotRetryOtherErrors(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	dbErr := errors.New("connexion perdue")
	f.demandes.createFailures = 1
	f.demandes.createErr = dbErr

	_, err := f.svc.CreateDemande(f.createRequest(client.ID))
	assert.ErrorIs(t, err, dbErr)
}

func TestCreateDemandeUnknownClient(t *testing.T) {
	f := newDemandeFixture(t)

	_, err := f.svc.CreateDemande(f.createRequest(99))
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestCreateDemandeUnknownRaison(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	req := f.createRequest(client.ID)
	req.RaisonDemande = "CURIOSITE"
	_, err := f.svc.CreateDemande(req)
	assert.ErrorIs(t, err, ErrRaisonInconnue)
}

func TestCreateDemandeUnknownType(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	req := f.createRequest(client.ID)
	req.TypeDocument = "PASSEPORT"
	_, err := f.svc.CreateDemande(req)
	assert.ErrorIs(t, err, ErrTypeDocumentInconnu)
}

func TestCreateDemandeMissingDetailField(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	req := f.createRequest(client.ID)
	req.Details = json.RawMessage(`{"prenom": "Amina", "nom": "Njoya"}`)
	_, err := f.svc.CreateDemande(req)
	assert.ErrorIs(t, err, ErrDetailsInvalides)
}

func TestCreateDemandeMalformedDetails(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	req := f.createRequest(client.ID)
	req.Details = json.RawMessage(`{`)
	_, err := f.svc.CreateDemande(req)
	assert.ErrorIs(t, err, ErrDetailsInvalides)
}

func TestGetDemandeByNumero(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	created, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	found, err := f.svc.GetDemandeByNumero(created.NumeroDemande)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = f.svc.GetDemandeByNumero("P0-19990101-00001")
	assert.ErrorIs(t, err, ErrDemandeNotFound)
}

func TestUpdateDemandeOnlyWhileEnCours(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	updated, err := f.svc.UpdateDemande(d.ID, models.RaisonEmploi, identiteDetails)
	require.NoError(t, err)
	assert.Equal(t, models.RaisonEmploi, updated.RaisonDemande)

	_, err = f.svc.Rejeter(d.ID, "pièces illisibles")
	require.NoError(t, err)

	_, err = f.svc.UpdateDemande(d.ID, models.RaisonEmploi, identiteDetails)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejeterRequiresMotif(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	_, err = f.svc.Rejeter(d.ID, "   ")
	assert.ErrorIs(t, err, ErrMotifRequis)
}

func TestRejeterNotifiesClient(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	rejected, err := f.svc.Rejeter(d.ID, "acte introuvable au registre")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejete, rejected.Status)
	require.NotNil(t, rejected.MotifRejet)
	assert.Equal(t, "acte introuvable au registre", *rejected.MotifRejet)
	assert.Len(t, f.emails.statusSent, 1)
}

func TestRejeterIsTerminal(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)
	_, err = f.svc.Rejeter(d.ID, "doublon")
	require.NoError(t, err)

	_, err = f.svc.Rejeter(d.ID, "encore")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.Valider(d.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteDemandeNotFound(t *testing.T) {
	f := newDemandeFixture(t)

	err := f.svc.DeleteDemande(33)
	assert.ErrorIs(t, err, ErrDemandeNotFound)
}

func TestAffecterAgentAssignsBatch(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)
	agent := addStaff(t, f.agents, "essomba@bunec.cm", "motdepasse8", models.CompteActif)

	first, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)
	second, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	assigned, err := f.svc.AffecterAgent(agent.ID, []int{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, assigned, 2)
	for _, d := range assigned {
		require.NotNil(t, d.AgentID)
		assert.Equal(t, agent.ID, *d.AgentID)
	}

	stored, err := f.demandes.GetByID(first.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AgentID)
	assert.Equal(t, agent.ID, *stored.AgentID)
}

func TestAffecterAgentSkipsUnknownIDs(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)
	agent := addStaff(t, f.agents, "essomba@bunec.cm", "motdepasse8", models.CompteActif)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	assigned, err := f.svc.AffecterAgent(agent.ID, []int{d.ID, 99})
	require.NoError(t, err)
	assert.Len(t, assigned, 1)
}

func TestAffecterAgentUnknownAgent(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	d, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)

	_, err = f.svc.AffecterAgent(42, []int{d.ID})
	assert.ErrorIs(t, err, ErrAgentInconnu)
}

func TestAffecterAgentNoMatchingDemande(t *testing.T) {
	f := newDemandeFixture(t)
	agent := addStaff(t, f.agents, "essomba@bunec.cm", "motdepasse8", models.CompteActif)

	_, err := f.svc.AffecterAgent(agent.ID, []int{7, 8})
	assert.ErrorIs(t, err, ErrDemandeNotFound)
}

func TestListDemandesParOrganisation(t *testing.T) {
	f := newDemandeFixture(t)
	client := f.addClient(t)

	minjustice, err := f.svc.CreateDemande(f.createRequest(client.ID))
	require.NoError(t, err)
	// An acte goes through centre validation, so seed it straight into
	// the repository.
	require.NoError(t, f.demandes.Create(&models.Demande{
		ClientID:      client.ID,
		NumeroDemande: "P0-20250310-00099",
		TypeDocument:  models.ActeNaissance,
		RaisonDemande: models.RaisonDuplicata,
		Status:        models.StatusEnCours,
		Details:       identiteDetails,
	}))

	forMinjustice, err := f.svc.ListDemandesParOrganisation(models.OrganisationMinjustice, 50, 0)
	require.NoError(t, err)
	require.Len(t, forMinjustice, 1)
	assert.Equal(t, minjustice.ID, forMinjustice[0].ID)

	forBunec, err := f.svc.ListDemandesParOrganisation(models.OrganisationBUNEC, 50, 0)
	require.NoError(t, err)
	require.Len(t, forBunec, 1)
	assert.Equal(t, models.ActeNaissance, forBunec[0].TypeDocument)
}

func TestListDemandesParOrganisationInconnue(t *testing.T) {
	f := newDemandeFixture(t)

	_, err := f.svc.ListDemandesParOrganisation("PREFECTURE", 50, 0)
	assert.ErrorIs(t, err, ErrNomOrganisationInvalide)
}
