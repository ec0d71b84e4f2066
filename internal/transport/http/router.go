package http

import (
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cmz-api/internal/application/analytics"
	"github.com/cmz-api/internal/application/animal"
	"github.com/cmz-api/internal/application/auth"
	"github.com/cmz-api/internal/application/conversation"
	"github.com/cmz-api/internal/application/family"
	"github.com/cmz-api/internal/application/guardrail"
	mediaapp "github.com/cmz-api/internal/application/media"
	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/application/user"
	"github.com/cmz-api/internal/config"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/cmz-api/internal/infrastructure/jwt"
	s3infra "github.com/cmz-api/internal/infrastructure/s3"
	snsinfra "github.com/cmz-api/internal/infrastructure/sns"
	"github.com/cmz-api/internal/transport/http/handler"
	appmiddleware "github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	DynamoClient     *dynamodb.Client
	UserRepo         *dynamo.UserRepo
	AnimalRepo       *dynamo.AnimalRepo
	FamilyRepo       *dynamo.FamilyRepo
	GuardrailRepo    *dynamo.GuardrailRepo
	ConversationRepo *dynamo.ConversationRepo
	MediaRepo        *dynamo.MediaRepo
	S3Store          *s3infra.Store
	Alerts           snsinfra.AlertPublisher // nil disables guardrail alerting
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the login endpoint.
	loginRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	relations := relation.NewChecker(relation.CheckerDeps{
		Users:      deps.UserRepo,
		Families:   deps.FamilyRepo,
		Animals:    deps.AnimalRepo,
		Guardrails: deps.GuardrailRepo,
	})

	userSvc := user.NewService(deps.UserRepo, relations)
	animalSvc := animal.NewService(deps.AnimalRepo, relations)
	familySvc := family.NewService(deps.FamilyRepo, relations)
	guardrailSvc := guardrail.NewService(deps.GuardrailRepo)
	conversationSvc := conversation.NewService(conversation.ServiceDeps{
		ConversationRepo: deps.ConversationRepo,
		AnimalRepo:       deps.AnimalRepo,
		GuardrailSvc:     guardrailSvc,
		Relations:        relations,
		Alerts:           deps.Alerts,
	})
	mediaSvc := mediaapp.NewService(deps.S3Store, deps.MediaRepo, relations)
	analyticsSvc := analytics.NewService(deps.ConversationRepo, deps.AnimalRepo)
	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)

	healthH := handler.NewHealthHandler(deps.DynamoClient)
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	animalH := handler.NewAnimalHandler(animalSvc)
	familyH := handler.NewFamilyHandler(familySvc)
	guardrailH := handler.NewGuardrailHandler(guardrailSvc)
	conversationH := handler.NewConversationHandler(conversationSvc)
	mediaH := handler.NewMediaHandler(mediaSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(loginRL.Limit).Post("/auth", authH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			// Any authenticated user
			r.Get("/animal-list", animalH.ListChatEnabled)
			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Post("/conversations", conversationH.Start)
			r.Get("/conversations", conversationH.List)
			r.Get("/conversations/{id}", conversationH.Get)
			r.Post("/conversations/{id}/turns", conversationH.AddTurn)
			r.Delete("/conversations/{id}", conversationH.Delete)

			// Staff and above: full reads, media and reporting
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireMinRole(domain.RoleStaff))

				r.Get("/animals", animalH.List)
				r.Get("/animals/{id}", animalH.Get)
				r.Put("/animals/{id}", animalH.Update)
				r.Get("/families", familyH.List)
				r.Get("/families/{id}", familyH.Get)
				r.Get("/guardrails", guardrailH.List)
				r.Get("/guardrails/{id}", guardrailH.Get)

				r.Post("/media", mediaH.Upload)
				r.Get("/media", mediaH.List)
				r.Get("/media/{id}", mediaH.Download)
				r.Get("/media/{id}/url", mediaH.PresignedURL)
				r.Delete("/media/{id}", mediaH.Delete)

				r.Get("/logs", analyticsH.Logs)
			})

			// Admin-only mutations
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireMinRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Post("/users", userH.Create)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/animals", animalH.Create)
				r.Delete("/animals/{id}", animalH.Delete)

				r.Post("/families", familyH.Create)
				r.Put("/families/{id}", familyH.Update)
				r.Delete("/families/{id}", familyH.Delete)

				r.Post("/guardrails", guardrailH.Create)
				r.Put("/guardrails/{id}", guardrailH.Update)
				r.Delete("/guardrails/{id}", guardrailH.Delete)
			})
		})
	})

	return r
}
