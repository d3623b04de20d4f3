package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "etatcivil/docs"
	"etatcivil/internal/cache"
	"etatcivil/internal/config"
	"etatcivil/internal/handlers"
	"etatcivil/internal/pdf"
	"etatcivil/internal/repositories"
	"etatcivil/internal/routes"
	"etatcivil/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Connexion à la base impossible: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Fermeture de la base: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("Base injoignable: ", err)
	}

	// === Redis (token revocation) ===
	blacklist, err := cache.NewTokenBlacklist(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Connexion à Redis impossible: ", err)
	}
	defer blacklist.Close()

	// === Repos ===
	clientRepo := repositories.NewClientRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	demandeRepo := repositories.NewDemandeRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	utilisateurRepo := repositories.NewUtilisateurRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	permissionRepo := repositories.NewPermissionRepository(db)
	organisationRepo := repositories.NewOrganisationRepository(db)
	centreRepo := repositories.NewCentreRepository(db)
	motifRepo := repositories.NewMotifRepository(db)
	telegramLinkRepo := repositories.NewTelegramLinkRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	otpService := services.NewOTPService(
		otpRepo, sessionRepo, clientRepo, emailService,
		time.Duration(cfg.Sessions.OTPWindowMin)*time.Minute,
	)
	sessionService := services.NewSessionService(
		sessionRepo, clientRepo, otpService,
		time.Duration(cfg.Sessions.SessionWindowMin)*time.Minute,
		[]byte(cfg.Auth.JWTSecret),
	)
	clientService := services.NewClientService(clientRepo, sessionService)

	pdfGen := pdf.NewDocumentGenerator(cfg.Files.RootDir, cfg.Files.FontPath)
	documentService := services.NewDocumentService(documentRepo, clientRepo, pdfGen)

	telegramService, err := services.NewTelegramService(cfg.Telegram.BotToken, telegramLinkRepo, utilisateurRepo)
	if err != nil {
		log.Fatal("Initialisation du bot Telegram: ", err)
	}

	demandeService := services.NewDemandeService(
		demandeRepo, clientRepo, utilisateurRepo, centreRepo, documentService, emailService, telegramService,
	)

	authService := services.NewAuthService(
		utilisateurRepo, blacklist,
		[]byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.StaffTokenTTLMin)*time.Minute,
	)
	utilisateurService := services.NewUtilisateurService(
		utilisateurRepo, roleRepo, organisationRepo, centreRepo, permissionRepo,
	)

	centreService := services.NewCentreService(centreRepo)
	organisationService := services.NewOrganisationService(organisationRepo)
	motifService := services.NewMotifService(motifRepo)
	roleService := services.NewRoleService(roleRepo, permissionRepo)

	// Telegram updates consumer
	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()
	go telegramService.Run(botCtx)

	// === Handlers ===
	clientHandler := handlers.NewClientHandler(clientService, sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	otpHandler := handlers.NewOTPHandler(otpService)
	demandeHandler := handlers.NewDemandeHandler(demandeService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	authHandler := handlers.NewAuthHandler(authService, utilisateurService)
	utilisateurHandler := handlers.NewUtilisateurHandler(utilisateurService, telegramService)
	referentielHandler := handlers.NewReferentielHandler(
		centreService, organisationService, motifService, roleService,
	)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authService,
		permissionRepo,
		clientHandler,
		sessionHandler,
		otpHandler,
		demandeHandler,
		documentHandler,
		authHandler,
		utilisateurHandler,
		referentielHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Serveur démarré sur %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Démarrage du serveur: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
