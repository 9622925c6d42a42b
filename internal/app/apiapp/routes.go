package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	checkoutsvc "github.com/Aizen-Agency/dreamster-be/internal/services/checkout"
	fulfillsvc "github.com/Aizen-Agency/dreamster-be/internal/services/fulfillment"
	librarysvc "github.com/Aizen-Agency/dreamster-be/internal/services/library"
	likessvc "github.com/Aizen-Agency/dreamster-be/internal/services/likes"
	perksvc "github.com/Aizen-Agency/dreamster-be/internal/services/perks"
	ratesvc "github.com/Aizen-Agency/dreamster-be/internal/services/rate"
	trackssvc "github.com/Aizen-Agency/dreamster-be/internal/services/tracks"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager         *authsvc.JWTManager
	CheckoutService    *checkoutsvc.Service
	FulfillmentService *fulfillsvc.Service
	LibraryService     *librarysvc.Service
	PerksService       *perksvc.Service
	LikesService       *likessvc.Service
	TracksService      *trackssvc.Service
	CheckoutLimiter    *ratesvc.Limiter
	LikesLimiter       *ratesvc.Limiter
	Logger             *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService, deps.CheckoutLimiter)
	webhookHandler := handlers.NewWebhookHandler(deps.FulfillmentService, deps.Logger)
	libraryHandler := handlers.NewLibraryHandler(deps.LibraryService)
	perksHandler := handlers.NewPerksHandler(deps.PerksService)
	likesHandler := handlers.NewLikesHandler(deps.LikesService, deps.LikesLimiter)
	tracksHandler := handlers.NewTracksHandler(deps.TracksService)

	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.With(authMW).Post("/checkout-session", checkoutHandler.Create)
			// No auth middleware: the provider signature is the gate.
			r.Post("/webhook", webhookHandler.Handle)
		})

		r.Route("/library", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", libraryHandler.List)
			r.Get("/transactions", libraryHandler.Transactions)
			r.Get("/owns/{track_id}", libraryHandler.Owns)
		})

		r.With(authMW).Get("/perks", perksHandler.List)

		r.Get("/tracks/{track_id}", tracksHandler.Get)
		r.Get("/stream/{track_id}", tracksHandler.Stream)

		r.Route("/tracks/{track_id}/like", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", likesHandler.Status)
			r.Post("/", likesHandler.Like)
			r.Delete("/", likesHandler.Unlike)
		})
	})
}
