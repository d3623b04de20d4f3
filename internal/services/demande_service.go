package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

var (
	ErrDemandeNotFound     = errors.New("demande non trouvée")
	ErrInvalidTransition   = errors.New("transition de statut non autorisée")
	ErrTypeDocumentInconnu = errors.New("type de document inconnu")
	ErrRaisonInconnue      = errors.New("raison de demande inconnue")
	ErrDetailsInvalides    = errors.New("détails de la demande invalides")
	ErrCentreInconnu       = errors.New("centre d'état civil inconnu")
	ErrMotifRequis         = errors.New("un motif de rejet est requis")
	ErrNumeroExhausted     = errors.New("impossible d'attribuer un numéro de demande")
	ErrAgentInconnu        = errors.New("agent non trouvé")
)

const (
	numeroPrefix        = "P0"
	numeroSeqDigits     = 5
	numeroCreateRetries = 5
)

// AgentNotifier pushes a message to the agents assigned to a centre.
type AgentNotifier interface {
	NotifyCentreAgents(centreID int, message string) error
}

type DemandeService struct {
	Repo      repositories.DemandeRepository
	Clients   repositories.ClientRepository
	Agents    repositories.UtilisateurRepository
	Centres   *repositories.CentreRepository
	Documents *DocumentService
	Emails    EmailService
	Notifier  AgentNotifier

	Now func() time.Time
}

func NewDemandeService(
	repo repositories.DemandeRepository,
	clients repositories.ClientRepository,
	agents repositories.UtilisateurRepository,
	centres *repositories.CentreRepository,
	documents *DocumentService,
	emails EmailService,
	notifier AgentNotifier,
) *DemandeService {
	return &DemandeService{
		Repo:      repo,
		Clients:   clients,
		Agents:    agents,
		Centres:   centres,
		Documents: documents,
		Emails:    emails,
		Notifier:  notifier,
		Now:       time.Now,
	}
}

// NumeroPrefixFor builds the day-scoped numbering prefix, e.g. "P0-20260901-".
func NumeroPrefixFor(day time.Time) string {
	return fmt.Sprintf("%s-%s-", numeroPrefix, day.Format("20060102"))
}

// GenerateNumero picks the next number in today's sequence. The day is
// taken in UTC so the counter rolls over at the same instant regardless of
// the server's timezone. Concurrent callers can race to the same number;
// the unique index on numero_demande is the arbiter and Create retries on
// collision.
func (s *DemandeService) GenerateNumero() (string, error) {
	prefix := NumeroPrefixFor(s.Now().UTC())
	last, err := s.Repo.LastNumeroForPrefix(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("numero mal formé %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%0*d", prefix, numeroSeqDigits, seq), nil
}

// CreateDemande validates the typed payload, assigns a unique numero and
// persists the demande in EN_COURS. A duplicate-numero insert (two requests
// landing on the same sequence slot) is retried with a fresh numero.
func (s *DemandeService) CreateDemande(req models.DemandeCreateRequest) (*models.Demande, error) {
	client, err := s.Clients.GetByID(req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if !isKnownRaison(req.RaisonDemande) {
		return nil, ErrRaisonInconnue
	}
	if err := s.validateDetails(req.TypeDocument, req.Details); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < numeroCreateRetries; attempt++ {
		numero, err := s.GenerateNumero()
		if err != nil {
			return nil, err
		}
		d := &models.Demande{
			ClientID:      req.ClientID,
			NumeroDemande: numero,
			TypeDocument:  req.TypeDocument,
			RaisonDemande: req.RaisonDemande,
			Status:        models.StatusEnCours,
			Details:       req.Details,
		}
		err = s.Repo.Create(d)
		if err == nil {
			log.Printf("[demande][create] numero=%s client=%d type=%s", numero, d.ClientID, d.TypeDocument)
			return d, nil
		}
		if isUniqueViolation(err) {
			log.Printf("[demande][create] numero collision on %s, retrying (%d/%d)", numero, attempt+1, numeroCreateRetries)
			continue
		}
		return nil, err
	}
	return nil, ErrNumeroExhausted
}

// validateDetails dispatches on the document type and checks that the typed
// payload carries its required fields. Acte payloads must also reference an
// existing centre.
func (s *DemandeService) validateDetails(t models.TypeDocument, raw json.RawMessage) error {
	switch t {
	case models.ActeNaissance:
		var d models.ActeNaissanceDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		if d.NumeroActeNaissance == "" || d.Prenom == "" || d.Nom == "" ||
			d.Sexe == "" || d.DateNaissance.IsZero() || d.LieuNaissance == "" ||
			d.NomPere == "" || d.NomMere == "" || d.DeclarePar == "" {
			return ErrDetailsInvalides
		}
		return s.checkCentreReference(d.ReferenceCentreCivil)
	case models.ActeMariage:
		var d models.ActeMariageDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		if d.NumeroActeMariage == "" || d.DateMariage.IsZero() ||
			d.LieuMariage == "" || d.NomEpoux == "" || d.NomEpouse == "" {
			return ErrDetailsInvalides
		}
		return s.checkCentreReference(d.ReferenceCentreCivil)
	case models.ActeDeces:
		var d models.ActeDecesDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		if d.NumeroActeDeces == "" || d.NomDefunt == "" ||
			d.DateDeces.IsZero() || d.LieuDeces == "" {
			return ErrDetailsInvalides
		}
		return s.checkCentreReference(d.ReferenceCentreCivil)
	case models.CertificatNationalite, models.ExtraitCasierJudiciaire, models.ExtraitPlumitif:
		var d models.IdentiteDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		if d.Prenom == "" || d.Nom == "" || d.Sexe == "" ||
			d.DateNaissance.IsZero() || d.LieuNaissance == "" {
			return ErrDetailsInvalides
		}
		return nil
	default:
		return ErrTypeDocumentInconnu
	}
}

func (s *DemandeService) checkCentreReference(reference string) error {
	if reference == "" {
		return ErrDetailsInvalides
	}
	centre, err := s.Centres.GetByReference(reference)
	if err != nil {
		return err
	}
	if centre == nil {
		return ErrCentreInconnu
	}
	return nil
}

func (s *DemandeService) GetDemande(id int) (*models.Demande, error) {
	d, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDemandeNotFound
	}
	return d, nil
}

func (s *DemandeService) GetDemandeByNumero(numero string) (*models.Demande, error) {
	d, err := s.Repo.GetByNumero(numero)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDemandeNotFound
	}
	return d, nil
}

func (s *DemandeService) ListDemandes(filter models.DemandeFilter, limit, offset int) ([]*models.Demande, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(filter, limit, offset)
}

// ListDemandesParOrganisation lists the demandes relevant to a supervising
// body: the BUNEC handles the actes, the MINJUSTICE the nationality
// certificate and the judicial extracts.
func (s *DemandeService) ListDemandesParOrganisation(nom models.NomOrganisation, limit, offset int) ([]*models.Demande, error) {
	types := nom.TypesDocuments()
	if len(types) == 0 {
		return nil, ErrNomOrganisationInvalide
	}
	return s.ListDemandes(models.DemandeFilter{TypesDocuments: types}, limit, offset)
}

// AffecterAgent assigns a batch of demandes to a staff agent for
// processing and returns the updated rows. IDs that match no demande are
// skipped; the call fails only when none match.
func (s *DemandeService) AffecterAgent(agentID int, demandeIDs []int) ([]*models.Demande, error) {
	agent, err := s.Agents.GetByID(agentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrAgentInconnu
	}
	demandes, err := s.Repo.AssignAgent(agentID, demandeIDs)
	if err != nil {
		return nil, err
	}
	if len(demandes) == 0 {
		return nil, ErrDemandeNotFound
	}
	log.Printf("[demande][affecter] agent=%d demandes=%d", agentID, len(demandes))
	return demandes, nil
}

// UpdateDemande lets the client amend raison and details while the demande
// is still being processed.
func (s *DemandeService) UpdateDemande(id int, raison models.RaisonDemande, details json.RawMessage) (*models.Demande, error) {
	d, err := s.GetDemande(id)
	if err != nil {
		return nil, err
	}
	if d.Status != models.StatusEnCours {
		return nil, ErrInvalidTransition
	}
	if !isKnownRaison(raison) {
		return nil, ErrRaisonInconnue
	}
	if err := s.validateDetails(d.TypeDocument, details); err != nil {
		return nil, err
	}
	d.RaisonDemande = raison
	d.Details = details
	if err := s.Repo.Update(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Valider approves the demande: the certificate PDF is produced first, then
// the status flips to VALIDE and the client is notified by email. Email
// delivery is best effort.
func (s *DemandeService) Valider(id int) (*models.Demande, error) {
	d, err := s.GetDemande(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, models.StatusValide) {
		return nil, ErrInvalidTransition
	}

	if _, err := s.Documents.GenerateForDemande(d); err != nil {
		return nil, fmt.Errorf("génération du document: %w", err)
	}
	if err := s.Repo.UpdateStatus(id, models.StatusValide, nil, nil); err != nil {
		return nil, err
	}
	d.Status = models.StatusValide

	s.notifyClient(d, "")
	return d, nil
}

// Rejeter refuses the demande with a mandatory motif.
func (s *DemandeService) Rejeter(id int, motif string) (*models.Demande, error) {
	motif = strings.TrimSpace(motif)
	if motif == "" {
		return nil, ErrMotifRequis
	}
	d, err := s.GetDemande(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, models.StatusRejete) {
		return nil, ErrInvalidTransition
	}
	if err := s.Repo.UpdateStatus(id, models.StatusRejete, &motif, nil); err != nil {
		return nil, err
	}
	d.Status = models.StatusRejete
	d.MotifRejet = &motif

	s.notifyClient(d, motif)
	return d, nil
}

// Transferer routes the demande to another centre and pings its agents.
func (s *DemandeService) Transferer(id, centreID int) (*models.Demande, error) {
	d, err := s.GetDemande(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, models.StatusTransfere) {
		return nil, ErrInvalidTransition
	}
	centre, err := s.Centres.GetByID(centreID)
	if err != nil {
		return nil, err
	}
	if centre == nil {
		return nil, ErrCentreInconnu
	}
	if err := s.Repo.UpdateStatus(id, models.StatusTransfere, nil, &centreID); err != nil {
		return nil, err
	}
	d.Status = models.StatusTransfere
	d.CentreID = &centreID

	if s.Notifier != nil {
		msg := fmt.Sprintf("Demande %s (%s) transférée vers le centre %s.",
			d.NumeroDemande, d.TypeDocument.Libelle(), centre.Nom)
		if err := s.Notifier.NotifyCentreAgents(centreID, msg); err != nil {
			log.Printf("[demande][transfert] notification agents échouée: demande=%s: %v", d.NumeroDemande, err)
		}
	}
	return d, nil
}

func (s *DemandeService) DeleteDemande(id int) error {
	if _, err := s.GetDemande(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *DemandeService) notifyClient(d *models.Demande, motif string) {
	client, err := s.Clients.GetByID(d.ClientID)
	if err != nil || client == nil || client.Email == nil || *client.Email == "" {
		return
	}
	if err := s.Emails.SendDemandeStatusEmail(*client.Email, d.NumeroDemande, d.Status, motif); err != nil {
		log.Printf("[demande][notify] email échoué: demande=%s: %v", d.NumeroDemande, err)
	}
}

func isKnownRaison(r models.RaisonDemande) bool {
	switch r {
	case models.RaisonPerteDocument, models.RaisonVolDocument, models.RaisonDeterioration,
		models.RaisonRectification, models.RaisonChangementEtat, models.RaisonUsageEtranger,
		models.RaisonDuplicata, models.RaisonExigenceAdmin, models.RaisonRegularisation,
		models.RaisonPersonnelle, models.RaisonDossierScolaire, models.RaisonEmploi,
		models.RaisonVisa, models.RaisonSuccession, models.RaisonMariage,
		models.RaisonCreationEntreprise, models.RaisonDossierBancaire:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
