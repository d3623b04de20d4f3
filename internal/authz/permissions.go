package authz

// Permission codes seeded in the permissions table and checked by the
// RequirePermissions middleware.
const (
	PermDemandesLire       = "demandes.lire"
	PermDemandesValider    = "demandes.valider"
	PermDemandesRejeter    = "demandes.rejeter"
	PermDemandesTransferer = "demandes.transferer"
	PermDemandesAffecter   = "demandes.affecter"

	PermClientsLire  = "clients.lire"
	PermClientsGerer = "clients.gerer"

	PermUtilisateursLire     = "utilisateurs.lire"
	PermUtilisateursGerer    = "utilisateurs.gerer"
	PermUtilisateursAffecter = "utilisateurs.affecter"

	PermReferentielGerer = "referentiel.gerer"
)

// Role names seeded in the roles table.
const (
	RoleAgent          = "AGENT"
	RoleOperateur      = "OPERATEUR"
	RoleAdministrateur = "ADMINISTRATEUR"
)
