package models

import (
	"encoding/json"
	"time"
)

// TypeDocument discriminates the kind of civil-status document requested.
type TypeDocument string

const (
	ActeNaissance           TypeDocument = "ACTE_NAISSANCE"
	ActeMariage             TypeDocument = "ACTE_MARIAGE"
	ActeDeces               TypeDocument = "ACTE_DECES"
	CertificatNationalite   TypeDocument = "CERTIFICAT_NATIONALITE"
	ExtraitCasierJudiciaire TypeDocument = "CASIER_JUDICIAIRE"
	ExtraitPlumitif         TypeDocument = "PLUMITIF"
)

// Libelle returns the human-readable French label for the document type.
func (t TypeDocument) Libelle() string {
	switch t {
	case ActeNaissance:
		return "Acte de naissance"
	case ActeMariage:
		return "Acte de mariage"
	case ActeDeces:
		return "Acte de décès"
	case CertificatNationalite:
		return "Certificat de nationalité"
	case ExtraitCasierJudiciaire:
		return "Extrait du casier judiciaire"
	case ExtraitPlumitif:
		return "Extrait du plumitif"
	}
	return string(t)
}

// RaisonDemande is the declared reason for the request.
type RaisonDemande string

const (
	RaisonPerteDocument      RaisonDemande = "PERTE_DOCUMENT"
	RaisonVolDocument        RaisonDemande = "VOL_DOCUMENT"
	RaisonDeterioration      RaisonDemande = "DETERIORATION_DOCUMENT"
	RaisonRectification      RaisonDemande = "RECTIFICATION_ERREUR"
	RaisonChangementEtat     RaisonDemande = "CHANGEMENT_ETAT_CIVIL"
	RaisonUsageEtranger      RaisonDemande = "UTILISATION_ETRANGER"
	RaisonDuplicata          RaisonDemande = "DEMANDE_DUPLICATA"
	RaisonExigenceAdmin      RaisonDemande = "EXIGENCE_ADMINISTRATIVE"
	RaisonRegularisation     RaisonDemande = "REGULARISATION_SITUATION"
	RaisonPersonnelle        RaisonDemande = "DEMANDE_PERSONNELLE"
	RaisonDossierScolaire    RaisonDemande = "DOSSIER_SCOLAIRE"
	RaisonEmploi             RaisonDemande = "EMPLOI_RECRUTEMENT"
	RaisonVisa               RaisonDemande = "DEMANDE_VISA"
	RaisonSuccession         RaisonDemande = "SUCCESSION_HERITAGE"
	RaisonMariage            RaisonDemande = "MARIAGE"
	RaisonCreationEntreprise RaisonDemande = "CREATION_ENTREPRISE"
	RaisonDossierBancaire    RaisonDemande = "DOSSIER_BANCAIRE"
)

// StatusDemande is the lifecycle status of a request.
// EN_COURS is the only entry state; VALIDE and REJETE are terminal.
type StatusDemande string

const (
	StatusEnCours   StatusDemande = "EN_COURS"
	StatusValide    StatusDemande = "VALIDE"
	StatusRejete    StatusDemande = "REJETE"
	StatusTransfere StatusDemande = "TRANSFERE"
)

// Demande is a civil-status document request. The per-type payload lives in
// Details, a tagged union keyed by TypeDocument and validated by the
// registered handler for that type.
type Demande struct {
	ID            int             `json:"id"`
	ClientID      int             `json:"client_id"`
	NumeroDemande string          `json:"numero_demande"`
	TypeDocument  TypeDocument    `json:"type_document"`
	RaisonDemande RaisonDemande   `json:"raison_demande"`
	Status        StatusDemande   `json:"status"`
	CentreID      *int            `json:"centre_id,omitempty"`
	AgentID       *int            `json:"agent_id,omitempty"`
	MotifRejet    *string         `json:"motif_rejet,omitempty"`
	Details       json.RawMessage `json:"details"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ActeNaissanceDetails is the payload required for a birth-certificate request.
type ActeNaissanceDetails struct {
	ReferenceCentreCivil string     `json:"reference_centre_civil"`
	NumeroActeNaissance  string     `json:"numero_acte_naissance"`
	DateCreationActe     time.Time  `json:"date_creation_acte"`
	DeclarePar           string     `json:"declare_par"`
	AutorisePar          string     `json:"autorise_par,omitempty"`
	Prenom               string     `json:"prenom"`
	Nom                  string     `json:"nom"`
	Sexe                 string     `json:"sexe"`
	DateNaissance        time.Time  `json:"date_naissance"`
	LieuNaissance        string     `json:"lieu_naissance"`
	NomPere              string     `json:"nom_pere"`
	DateNaissancePere    *time.Time `json:"date_naissance_pere,omitempty"`
	LieuNaissancePere    string     `json:"lieu_naissance_pere,omitempty"`
	ProfessionPere       string     `json:"profession_pere,omitempty"`
	NomMere              string     `json:"nom_mere"`
	DateNaissanceMere    *time.Time `json:"date_naissance_mere,omitempty"`
	LieuNaissanceMere    string     `json:"lieu_naissance_mere,omitempty"`
	ProfessionMere       string     `json:"profession_mere,omitempty"`
}

// ActeMariageDetails is the payload for a marriage-certificate request.
type ActeMariageDetails struct {
	ReferenceCentreCivil string    `json:"reference_centre_civil"`
	NumeroActeMariage    string    `json:"numero_acte_mariage"`
	DateMariage          time.Time `json:"date_mariage"`
	LieuMariage          string    `json:"lieu_mariage"`
	NomEpoux             string    `json:"nom_epoux"`
	NomEpouse            string    `json:"nom_epouse"`
}

// ActeDecesDetails is the payload for a death-certificate request.
type ActeDecesDetails struct {
	ReferenceCentreCivil string    `json:"reference_centre_civil"`
	NumeroActeDeces      string    `json:"numero_acte_deces"`
	NomDefunt            string    `json:"nom_defunt"`
	DateDeces            time.Time `json:"date_deces"`
	LieuDeces            string    `json:"lieu_deces"`
}

// IdentiteDetails covers the nationality certificate and the judicial
// extracts, which only need the identity of the person concerned.
type IdentiteDetails struct {
	Prenom        string    `json:"prenom"`
	Nom           string    `json:"nom"`
	Sexe          string    `json:"sexe"`
	DateNaissance time.Time `json:"date_naissance"`
	LieuNaissance string    `json:"lieu_naissance"`
	NomPere       string    `json:"nom_pere,omitempty"`
	NomMere       string    `json:"nom_mere,omitempty"`
}

type DemandeCreateRequest struct {
	ClientID      int             `json:"client_id" binding:"required"`
	TypeDocument  TypeDocument    `json:"type_document" binding:"required"`
	RaisonDemande RaisonDemande   `json:"raison_demande" binding:"required"`
	Details       json.RawMessage `json:"details" binding:"required"`
}

// DemandeFilter restricts listing by optional criteria. TypesDocuments,
// when set, keeps any demande whose type is in the list.
type DemandeFilter struct {
	ClientID       *int
	Status         *StatusDemande
	TypeDocument   *TypeDocument
	TypesDocuments []TypeDocument
	CentreID       *int
	AgentID        *int
}
