package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"spectux-billing/internal/infra/logging"
	"spectux-billing/internal/usecase"
)

// Server exposes the checkout, webhook, and registration endpoints.
type Server struct {
	checkoutUC     usecase.CheckoutUseCase
	provisionUC    usecase.ProvisionUseCase
	registrationUC usecase.RegistrationUseCase
	corsOrigin     string
	log            *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	provisionUC usecase.ProvisionUseCase,
	registrationUC usecase.RegistrationUseCase,
	corsOrigin string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC:     checkoutUC,
		provisionUC:    provisionUC,
		registrationUC: registrationUC,
		corsOrigin:     corsOrigin,
		log:            logger,
	}
}

// Routes assembles the router. The webhook route has no CORS handling on
// purpose: its only caller is the provider's dispatcher, not a browser.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/ping", s.handlePing)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.cors)
		r.Options("/*", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/checkout", s.handleCheckout)
		r.Post("/send-confirmation", s.handleSendConfirmation)
	})

	r.Post("/webhook", s.handleWebhook)

	return r
}

// cors mirrors the original frontend contract: one configurable origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		next.ServeHTTP(w, r)
	})
}

// requestLogger tags each request with a ULID trace id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := ulid.Make().String()
		ctx := logging.WithTraceID(r.Context(), traceID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.log.Info().
			Str("trace_id", traceID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
