package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/devhire/backend/internal/api/handlers"
	"github.com/devhire/backend/internal/api/middleware"
	"github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/service"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/token"
)

// NewRouter wires all route groups under /api/v1.
func NewRouter(services *service.Services, tokens *token.Service, sessions *session.Store, hub *realtime.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User)
	offerHandler := handlers.NewJobOfferHandler(services.JobOffer)
	postHandler := handlers.NewPostHandler(services.Post)
	commentHandler := handlers.NewCommentHandler(services.Comment)
	wsHandler := handlers.NewWebSocketHandler(hub, tokens, sessions)

	authenticate := middleware.Authenticate(tokens, sessions)
	adminOnly := middleware.AuthorizeRoles(domain.RoleAdmin)
	recruiterOrAdmin := middleware.AuthorizeRoles(domain.RoleRecruiter, domain.RoleAdmin)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public.
		r.Post("/registration", authHandler.Register)
		r.Post("/activate-user", authHandler.Activate)
		r.Post("/login-user", authHandler.Login)
		r.Post("/social-auth", authHandler.SocialAuth)
		r.Get("/refresh-token", authHandler.Refresh)
		r.Get("/get-public-profile/{id}", userHandler.GetPublicProfile)
		r.Get("/get-all-job-offers", offerHandler.GetAll)
		r.Get("/get-job-offer/{id}", offerHandler.GetOne)
		r.Get("/get-all-posts", postHandler.GetAll)
		r.Get("/get-post/{id}", postHandler.GetOne)
		r.Get("/get-user-posts/{id}", postHandler.GetByUser)
		r.Get("/get-comments/{id}", commentHandler.GetByPost)
		r.Get("/job-offers-feed", wsHandler.Subscribe)

		// Authenticated.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/logout", authHandler.Logout)
			r.Get("/me", userHandler.GetMe)
			r.Put("/update-me", userHandler.UpdateMe)
			r.Put("/update-user-password", userHandler.UpdatePassword)
			r.Put("/update-user-avatar", userHandler.UpdateAvatar)
			r.Put("/update-user-additional-info", userHandler.UpdateAdditionalInfo)
			r.Delete("/delete-section-in-profile/{id}", userHandler.DeleteSection)

			r.Put("/apply-to-job-offer/{id}", offerHandler.Apply)
			r.Put("/add-favorite-job-offer/{id}", offerHandler.ToggleFavorite)

			r.Post("/create-post", postHandler.Create)
			r.Put("/edit-post/{id}", postHandler.Update)
			r.Delete("/delete-post/{id}", postHandler.Delete)
			r.Get("/get-my-posts", postHandler.GetMine)
			r.Post("/add-comment/{id}", commentHandler.Create)
			r.Put("/edit-comment/{id}", commentHandler.Update)
			r.Delete("/delete-comment/{id}", commentHandler.Delete)

			// Recruiter surface.
			r.Group(func(r chi.Router) {
				r.Use(recruiterOrAdmin)

				r.Post("/create-job-offer", offerHandler.Create)
				r.Put("/edit-job-offer/{id}", offerHandler.Update)
				r.Delete("/delete-job-offer/{id}", offerHandler.Delete)
				r.Get("/get-all-applicants-of-a-job-offer/{id}", offerHandler.GetApplicants)
				r.Put("/update-applicant-status/{id}", offerHandler.UpdateApplicantStatus)
			})

			// Admin surface.
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Get("/get-all-users", userHandler.GetAllUsers)
				r.Put("/update-user-role", userHandler.UpdateRole)
				r.Delete("/delete-user/{id}", userHandler.DeleteUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	})

	return r
}
