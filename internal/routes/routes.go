package routes

import (
	"github.com/gin-gonic/gin"

	"etatcivil/internal/authz"
	"etatcivil/internal/handlers"
	"etatcivil/internal/middleware"
	"etatcivil/internal/repositories"
	"etatcivil/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	auth *services.AuthService,
	perms repositories.PermissionRepository,
	clientHandler *handlers.ClientHandler,
	sessionHandler *handlers.SessionHandler,
	otpHandler *handlers.OTPHandler,
	demandeHandler *handlers.DemandeHandler,
	documentHandler *handlers.DocumentHandler,
	authHandler *handlers.AuthHandler,
	utilisateurHandler *handlers.UtilisateurHandler,
	referentielHandler *handlers.ReferentielHandler,
) *gin.Engine {

	// ---- public: client self-service (session/OTP is the auth mechanism)
	r.POST("/clients", clientHandler.Create)
	r.PUT("/clients/:client_id/session/:session_id/activate", clientHandler.ActivateSession)

	r.POST("/sessions", sessionHandler.Create)
	r.POST("/sessions/:session_id/activate", sessionHandler.Activate)
	r.GET("/sessions/:session_id", sessionHandler.GetByID)

	r.POST("/otp/:session_id", otpHandler.Issue)
	r.GET("/otp/:session_id", otpHandler.GetCurrent)
	r.POST("/otp/:session_id/validate", otpHandler.Validate)

	r.POST("/demandes", demandeHandler.Create)
	r.GET("/suivi/:numero", demandeHandler.GetByNumero)

	r.POST("/login", authHandler.Login)

	// ---- staff (Bearer token + permission checks)
	staff := r.Group("/", middleware.StaffAuth(auth))

	staff.POST("/logout", authHandler.Logout)
	staff.GET("/me", authHandler.Me)

	// CLIENTS
	clients := staff.Group("/clients")
	{
		clients.GET("", middleware.RequirePermissions(perms, authz.PermClientsLire), clientHandler.List)
		clients.GET("/:client_id", middleware.RequirePermissions(perms, authz.PermClientsLire), clientHandler.GetByID)
		clients.GET("/:client_id/sessions", middleware.RequirePermissions(perms, authz.PermClientsLire), sessionHandler.ListByClient)
		clients.POST("/:client_id/sessions/deactivate", middleware.RequirePermissions(perms, authz.PermClientsGerer), sessionHandler.DeactivateAll)
		clients.DELETE("/:client_id", middleware.RequirePermissions(perms, authz.PermClientsGerer), clientHandler.Delete)
	}
	staff.DELETE("/sessions/:session_id", middleware.RequirePermissions(perms, authz.PermClientsGerer), sessionHandler.Delete)

	// DEMANDES
	demandes := staff.Group("/demandes")
	{
		demandes.GET("", middleware.RequirePermissions(perms, authz.PermDemandesLire), demandeHandler.List)
		demandes.GET("/organisation/:nom", middleware.RequirePermissions(perms, authz.PermDemandesLire), demandeHandler.ListParOrganisation)
		demandes.POST("/affecter", middleware.RequirePermissions(perms, authz.PermDemandesAffecter), demandeHandler.Affecter)
		demandes.GET("/:id", middleware.RequirePermissions(perms, authz.PermDemandesLire), demandeHandler.GetByID)
		demandes.PUT("/:id", middleware.RequirePermissions(perms, authz.PermDemandesLire), demandeHandler.Update)
		demandes.POST("/:id/valider", middleware.RequirePermissions(perms, authz.PermDemandesValider), demandeHandler.Valider)
		demandes.POST("/:id/rejeter", middleware.RequirePermissions(perms, authz.PermDemandesRejeter), demandeHandler.Rejeter)
		demandes.POST("/:id/transferer", middleware.RequirePermissions(perms, authz.PermDemandesTransferer), demandeHandler.Transferer)
		demandes.DELETE("/:id", middleware.RequirePermissions(perms, authz.PermDemandesValider), demandeHandler.Delete)
		demandes.GET("/:id/document", middleware.RequirePermissions(perms, authz.PermDemandesLire), documentHandler.GetByDemande)
	}

	// DOCUMENTS
	docs := staff.Group("/documents", middleware.RequirePermissions(perms, authz.PermDemandesLire))
	{
		docs.GET("/:id/download", documentHandler.Download)
		docs.GET("/:id/verifier", documentHandler.Verify)
	}

	// UTILISATEURS
	users := staff.Group("/utilisateurs")
	{
		users.POST("", middleware.RequirePermissions(perms, authz.PermUtilisateursGerer), utilisateurHandler.Create)
		users.GET("", middleware.RequirePermissions(perms, authz.PermUtilisateursLire), utilisateurHandler.List)
		users.GET("/:id", middleware.RequirePermissions(perms, authz.PermUtilisateursLire), utilisateurHandler.GetByID)
		users.PUT("/:id", middleware.RequirePermissions(perms, authz.PermUtilisateursGerer), utilisateurHandler.Update)
		users.PUT("/:id/status", middleware.RequirePermissions(perms, authz.PermUtilisateursGerer), utilisateurHandler.SetStatus)
		users.PUT("/:id/affectation", middleware.RequirePermissions(perms, authz.PermUtilisateursAffecter), utilisateurHandler.AffecterCentre)
		users.POST("/telegram-link", utilisateurHandler.RequestTelegramLink)
		users.DELETE("/:id", middleware.RequirePermissions(perms, authz.PermUtilisateursGerer), utilisateurHandler.Delete)
	}

	// REFERENTIEL
	centres := staff.Group("/centres")
	{
		centres.GET("", referentielHandler.ListCentres)
		centres.GET("/:centre_id", referentielHandler.GetCentre)
		centres.GET("/:centre_id/utilisateurs", middleware.RequirePermissions(perms, authz.PermUtilisateursLire), utilisateurHandler.ListByCentre)
		centres.POST("", middleware.RequirePermissions(perms, authz.PermReferentielGerer), referentielHandler.CreateCentre)
		centres.PUT("/:centre_id", middleware.RequirePermissions(perms, authz.PermReferentielGerer), referentielHandler.UpdateCentre)
		centres.DELETE("/:centre_id", middleware.RequirePermissions(perms, authz.PermReferentielGerer), referentielHandler.DeleteCentre)
	}

	orgs := staff.Group("/organisations")
	{
		orgs.GET("", referentielHandler.ListOrganisations)
		orgs.POST("", middleware.RequirePermissions(perms, authz.PermReferentielGerer), referentielHandler.CreateOrganisation)
	}

	motifs := staff.Group("/motifs")
	{
		motifs.GET("", referentielHandler.ListMotifs)
		motifs.POST("", middleware.RequirePermissions(perms, authz.PermReferentielGerer), referentielHandler.CreateMotif)
		motifs.DELETE("/:id", middleware.RequirePermissions(perms, authz.PermReferentielGerer), referentielHandler.DeleteMotif)
	}

	roles := staff.Group("/roles", middleware.RequirePermissions(perms, authz.PermReferentielGerer))
	{
		roles.GET("", referentielHandler.ListRoles)
		roles.POST("", referentielHandler.CreateRole)
		roles.POST("/:id/permissions", referentielHandler.GrantPermission)
		roles.DELETE("/:id/permissions/:permission_id", referentielHandler.RevokePermission)
	}

	permissions := staff.Group("/permissions", middleware.RequirePermissions(perms, authz.PermReferentielGerer))
	{
		permissions.GET("", referentielHandler.ListPermissions)
		permissions.POST("", referentielHandler.CreatePermission)
	}

	return r
}
