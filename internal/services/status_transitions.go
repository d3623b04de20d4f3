package services

import "etatcivil/internal/models"

// demandeTransitions lists, per current status, the statuses a demande may
// move to. VALIDE and REJETE are terminal; a transferred demande is picked
// up again by the receiving centre and resolved from there.
var demandeTransitions = map[models.StatusDemande][]models.StatusDemande{
	models.StatusEnCours:   {models.StatusValide, models.StatusRejete, models.StatusTransfere},
	models.StatusTransfere: {models.StatusValide, models.StatusRejete},
	models.StatusValide:    {},
	models.StatusRejete:    {},
}

// CanTransition reports whether a demande may move from one status to another.
func CanTransition(from, to models.StatusDemande) bool {
	for _, s := range demandeTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
