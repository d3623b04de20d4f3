package models

import "time"

// NomOrganisation enumerates the two supervising bodies.
type NomOrganisation string

const (
	OrganisationBUNEC      NomOrganisation = "BUNEC"
	OrganisationMinjustice NomOrganisation = "MINJUSTICE"
)

// TypesDocuments returns the document types an organisation supervises:
// the BUNEC issues the actes, the MINJUSTICE the nationality certificate
// and the judicial extracts. Unknown names map to nil.
func (n NomOrganisation) TypesDocuments() []TypeDocument {
	switch n {
	case OrganisationBUNEC:
		return []TypeDocument{ActeNaissance, ActeMariage, ActeDeces}
	case OrganisationMinjustice:
		return []TypeDocument{CertificatNationalite, ExtraitCasierJudiciaire, ExtraitPlumitif}
	}
	return nil
}

func (n NomOrganisation) Libelle() string {
	switch n {
	case OrganisationBUNEC:
		return "Bureau National de l'État Civil (BUNEC)"
	case OrganisationMinjustice:
		return "Ministère de la Justice (MINJUSTICE)"
	}
	return string(n)
}

type Organisation struct {
	ID        int             `json:"id"`
	Nom       NomOrganisation `json:"nom"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CentreEtatCivil is a local civil-status centre handling demandes.
type CentreEtatCivil struct {
	ID        int       `json:"id"`
	Reference string    `json:"reference"`
	Nom       string    `json:"nom"`
	Adresse   string    `json:"adresse,omitempty"`
	Email     string    `json:"email,omitempty"`
	Telephone string    `json:"telephone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
