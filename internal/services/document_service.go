package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"etatcivil/internal/models"
	"etatcivil/internal/pdf"
	"etatcivil/internal/repositories"
)

var ErrDocumentNotFound = errors.New("document non trouvé")

type DocumentService struct {
	Repo      *repositories.DocumentRepository
	Clients   repositories.ClientRepository
	Generator pdf.Generator
}

func NewDocumentService(repo *repositories.DocumentRepository, clients repositories.ClientRepository, generator pdf.Generator) *DocumentService {
	return &DocumentService{Repo: repo, Clients: clients, Generator: generator}
}

// GenerateForDemande produces the certificate PDF for a demande and records
// it with its size and sha256 checksum. Regenerating replaces the previous
// record; a demande keeps at most one document.
func (s *DocumentService) GenerateForDemande(d *models.Demande) (*models.Document, error) {
	demandeur := ""
	if client, err := s.Clients.GetByID(d.ClientID); err == nil && client != nil {
		demandeur = client.Identifier()
	}

	champs, err := champsForDemande(d)
	if err != nil {
		return nil, err
	}

	path, err := s.Generator.GenerateActe(pdf.ActeData{
		Numero:    d.NumeroDemande,
		Titre:     d.TypeDocument.Libelle(),
		Demandeur: demandeur,
		Raison:    string(d.RaisonDemande),
		CreatedAt: d.CreatedAt,
		Champs:    champs,
	})
	if err != nil {
		return nil, err
	}

	size, checksum, err := fileDigest(path)
	if err != nil {
		return nil, err
	}

	if prev, err := s.Repo.GetByDemandeID(d.ID); err != nil {
		return nil, err
	} else if prev != nil {
		if err := s.Repo.Delete(prev.ID); err != nil {
			return nil, err
		}
	}

	doc := &models.Document{
		DemandeID: d.ID,
		FilePath:  path,
		FileType:  "application/pdf",
		FileSize:  size,
		Checksum:  checksum,
	}
	if err := s.Repo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) GetDocument(id int) (*models.Document, error) {
	doc, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *DocumentService) GetDocumentByDemande(demandeID int) (*models.Document, error) {
	doc, err := s.Repo.GetByDemandeID(demandeID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// VerifyChecksum re-hashes the stored file and compares it with the recorded
// checksum, catching on-disk corruption or tampering.
func (s *DocumentService) VerifyChecksum(doc *models.Document) (bool, error) {
	_, checksum, err := fileDigest(doc.FilePath)
	if err != nil {
		return false, err
	}
	return checksum == doc.Checksum, nil
}

func fileDigest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return 0, "", fmt.Errorf("hash document: %w", err)
	}
	return size, hex.EncodeToString(h.Sum(nil)), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// champsForDemande flattens the typed details payload into the labelled
// fields printed on the certificate.
func champsForDemande(d *models.Demande) ([]pdf.Champ, error) {
	switch d.TypeDocument {
	case models.ActeNaissance:
		var det models.ActeNaissanceDetails
		if err := json.Unmarshal(d.Details, &det); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		return []pdf.Champ{
			{Cle: "Centre d'état civil", Valeur: det.ReferenceCentreCivil},
			{Cle: "Numéro de l'acte", Valeur: det.NumeroActeNaissance},
			{Cle: "Date de création de l'acte", Valeur: formatDate(det.DateCreationActe)},
			{Cle: "Déclaré par", Valeur: det.DeclarePar},
			{Cle: "Autorisé par", Valeur: det.AutorisePar},
			{Cle: "Prénom", Valeur: det.Prenom},
			{Cle: "Nom", Valeur: det.Nom},
			{Cle: "Sexe", Valeur: det.Sexe},
			{Cle: "Date de naissance", Valeur: formatDate(det.DateNaissance)},
			{Cle: "Lieu de naissance", Valeur: det.LieuNaissance},
			{Cle: "Nom du père", Valeur: det.NomPere},
			{Cle: "Date de naissance du père", Valeur: formatDatePtr(det.DateNaissancePere)},
			{Cle: "Lieu de naissance du père", Valeur: det.LieuNaissancePere},
			{Cle: "Profession du père", Valeur: det.ProfessionPere},
			{Cle: "Nom de la mère", Valeur: det.NomMere},
			{Cle: "Date de naissance de la mère", Valeur: formatDatePtr(det.DateNaissanceMere)},
			{Cle: "Lieu de naissance de la mère", Valeur: det.LieuNaissanceMere},
			{Cle: "Profession de la mère", Valeur: det.ProfessionMere},
		}, nil
	case models.ActeMariage:
		var det models.ActeMariageDetails
		if err := json.Unmarshal(d.Details, &det); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		return []pdf.Champ{
			{Cle: "Centre d'état civil", Valeur: det.ReferenceCentreCivil},
			{Cle: "Numéro de l'acte", Valeur: det.NumeroActeMariage},
			{Cle: "Date du mariage", Valeur: formatDate(det.DateMariage)},
			{Cle: "Lieu du mariage", Valeur: det.LieuMariage},
			{Cle: "Nom de l'époux", Valeur: det.NomEpoux},
			{Cle: "Nom de l'épouse", Valeur: det.NomEpouse},
		}, nil
	case models.ActeDeces:
		var det models.ActeDecesDetails
		if err := json.Unmarshal(d.Details, &det); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		return []pdf.Champ{
			{Cle: "Centre d'état civil", Valeur: det.ReferenceCentreCivil},
			{Cle: "Numéro de l'acte", Valeur: det.NumeroActeDeces},
			{Cle: "Nom du défunt", Valeur: det.NomDefunt},
			{Cle: "Date du décès", Valeur: formatDate(det.DateDeces)},
			{Cle: "Lieu du décès", Valeur: det.LieuDeces},
		}, nil
	case models.CertificatNationalite, models.ExtraitCasierJudiciaire, models.ExtraitPlumitif:
		var det models.IdentiteDetails
		if err := json.Unmarshal(d.Details, &det); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDetailsInvalides, err)
		}
		return []pdf.Champ{
			{Cle: "Prénom", Valeur: det.Prenom},
			{Cle: "Nom", Valeur: det.Nom},
			{Cle: "Sexe", Valeur: det.Sexe},
			{Cle: "Date de naissance", Valeur: formatDate(det.DateNaissance)},
			{Cle: "Lieu de naissance", Valeur: det.LieuNaissance},
			{Cle: "Nom du père", Valeur: det.NomPere},
			{Cle: "Nom de la mère", Valeur: det.NomMere},
		}, nil
	default:
		return nil, ErrTypeDocumentInconnu
	}
}
