package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/infra/logging"
	"spectux-billing/internal/infra/metrics"
	"spectux-billing/internal/usecase"
)

type checkoutRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Plan            string `json:"plan"`
	RedirectBaseURL string `json:"redirectBaseUrl"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	CustomerID  string `json:"customerId"`
	PaymentID   string `json:"paymentId"`
}

// confirmationRequest mirrors the field names the registration frontend has
// always sent.
type confirmationRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	ParentInfo struct {
		Email     string `json:"email"`
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
	} `json:"parent_info"`
	Participants []struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Club      string `json:"club"`
	} `json:"participants"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncCheckout("invalid")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.checkoutUC.Initiate(ctx, usecase.CheckoutRequest{
		Name:         req.Name,
		Email:        req.Email,
		Plan:         req.Plan,
		RedirectBase: req.RedirectBaseURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrNotFound):
			metrics.IncCheckout("invalid")
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUpstream):
			metrics.IncCheckout("upstream_error")
			log.Error().Err(err).Msg("checkout failed upstream")
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			metrics.IncCheckout("upstream_error")
			log.Error().Err(err).Msg("checkout failed")
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	metrics.IncCheckout("ok")
	writeJSON(w, http.StatusOK, checkoutResponse{
		CheckoutURL: result.CheckoutURL,
		CustomerID:  result.CustomerID,
		PaymentID:   result.PaymentID,
	})
}

// handleWebhook acknowledges payment-status notifications. The response is
// plain text aimed at the provider's dispatcher: 2xx stops redelivery, 5xx
// requests it. Diagnostics go to the log, never to the caller.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed body", http.StatusBadRequest)
		return
	}
	paymentID := r.PostFormValue("id")
	if paymentID == "" {
		http.Error(w, "Missing ID", http.StatusBadRequest)
		return
	}

	outcome, err := s.provisionUC.HandleNotification(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		// Authoritative state could not be read; ask for redelivery.
		log.Error().Err(err).Str("payment_id", paymentID).Msg("webhook handling failed, requesting redelivery")
		http.Error(w, "Provider error", http.StatusInternalServerError)
		return
	}

	metrics.IncWebhookOutcome(string(outcome))

	switch outcome {
	case usecase.OutcomeSubscriptionCreated:
		ack(w, "OK")
	case usecase.OutcomeNotFirstPayment:
		ack(w, "Ignored: not a first payment")
	case usecase.OutcomeNotPaid:
		ack(w, "Not paid")
	case usecase.OutcomeAlreadyProvisioned:
		ack(w, "Subscription already exists")
	case usecase.OutcomeUnknownPlan:
		ack(w, "Unresolvable plan")
	case usecase.OutcomeCreateFailed:
		metrics.IncReconciliationGap()
		ack(w, "Failed to create subscription but payment received")
	default:
		ack(w, "OK")
	}
}

func (s *Server) handleSendConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req confirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}

	reg := usecase.RegistrationConfirmation{
		Email: req.Email,
		Name:  req.Name,
		Parent: usecase.ParentInfo{
			Email:     req.ParentInfo.Email,
			FirstName: req.ParentInfo.FirstName,
			LastName:  req.ParentInfo.LastName,
		},
	}
	for _, p := range req.Participants {
		reg.Participants = append(reg.Participants, usecase.Participant{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Club:      p.Club,
		})
	}

	if err := s.registrationUC.Confirm(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("registration confirmation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func ack(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
