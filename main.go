package main

import (
	"net/http"
	"time"

	"otledger/audit"
	"otledger/auth"
	"otledger/config"
	"otledger/database"
	"otledger/guard"
	"otledger/handlers"
	"otledger/middleware"
	"otledger/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	middleware.SetJWTSecret(cfg.JWTSecret)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	if err := database.Seed(db); err != nil {
		log.WithError(err).Fatal("failed to seed database")
	}

	auditLog := audit.New(cfg.AuditLogFile)

	st := store.New(db)
	st.AllowFutureDates = cfg.AllowFutureDates
	st.Now = func() time.Time { return time.Now().In(cfg.Timezone) }

	authService := auth.NewService(st, auditLog)
	authGuard := guard.New(st, auditLog)

	authHandler := handlers.NewAuthHandler(cfg, authService, auditLog)
	overtimeHandler := handlers.NewOvertimeHandler(authGuard)
	adminHandler := handlers.NewAdminHandler(authGuard)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator)

		r.Post("/logout", authHandler.Logout)
		r.Post("/api/password", authHandler.ChangePassword)

		r.Get("/api/overtime", overtimeHandler.List)
		r.Post("/api/overtime", overtimeHandler.Create)
		r.Delete("/api/overtime/{id}", overtimeHandler.Delete)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/api/admin/summary", adminHandler.Summary)
			r.Get("/api/admin/records", adminHandler.Records)
			r.Get("/api/admin/users", adminHandler.Users)
			r.Get("/api/admin/users/{id}", adminHandler.UserDetail)
			r.Post("/api/admin/users", adminHandler.CreateUser)
			r.Put("/api/admin/users/{id}", adminHandler.UpdateUser)
			r.Delete("/api/admin/users/{id}", adminHandler.DeleteUser)
		})
	})

	log.Infof("server listening on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
