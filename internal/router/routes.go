package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	json "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
)

const (
	ROUTE_ROOT     = "/"
	ROUTE_HEALTH   = "/health"
	ROUTE_PAYMENTS = "/payments"
	ROUTE_METRICS  = "/metrics"

	MSG_SERVER_RUNNING = "Cashi Payment Server is running ✅"
	MSG_INVALID_BODY   = "Invalid request body"

	maxRequestBody = 64 << 10
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashi_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cashi_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
	}, []string{"method", "endpoint"})
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req model.PaymentRequest) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
}

type HealthReporter interface {
	Healthy() bool
}

type paymentHandler struct {
	Svc    PaymentService
	Health HealthReporter
}

func NewPaymentHandler(svc PaymentService, health HealthReporter) *paymentHandler {
	return &paymentHandler{Svc: svc, Health: health}
}

func Routes(handler *paymentHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(ROUTE_ROOT, handler.Root).Methods(http.MethodGet)
	r.HandleFunc(ROUTE_HEALTH, handler.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc(ROUTE_PAYMENTS, handler.SavePayment).Methods(http.MethodPost)
	r.HandleFunc(ROUTE_PAYMENTS, handler.ListPayments).Methods(http.MethodGet)
	r.Handle(ROUTE_METRICS, promhttp.Handler())
	return r
}

func (h *paymentHandler) Root(w http.ResponseWriter, r *http.Request) {
	httpReqTotal.WithLabelValues(http.MethodGet, ROUTE_ROOT, "200").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(MSG_SERVER_RUNNING))
}

func (h *paymentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil && !h.Health.Healthy() {
		h.respondJSON(w, http.StatusServiceUnavailable, model.HealthResponse{Status: "degraded", Store: "down"}, http.MethodGet, ROUTE_HEALTH)
		return
	}
	h.respondJSON(w, http.StatusOK, model.HealthResponse{Status: "ok", Store: "up"}, http.MethodGet, ROUTE_HEALTH)
}

// SavePayment maps validation failures to 400 and every other failure to 500.
func (h *paymentHandler) SavePayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues(http.MethodPost, ROUTE_PAYMENTS))
	defer timer.ObserveDuration()

	var req model.PaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		slog.Warn("[RT:Payment:Save:01] - Invalid request body", "error", err)
		h.respondJSON(w, http.StatusBadRequest, model.PaymentResponse{Success: false, Error: MSG_INVALID_BODY}, http.MethodPost, ROUTE_PAYMENTS)
		return
	}

	tStart := time.Now()
	payment, err := h.Svc.CreatePayment(r.Context(), req)
	if err != nil {
		var verr domain.ValidationError
		if errors.As(err, &verr) {
			h.respondJSON(w, http.StatusBadRequest, model.PaymentResponse{Success: false, Error: verr.Message}, http.MethodPost, ROUTE_PAYMENTS)
			return
		}
		h.respondJSON(w, http.StatusInternalServerError, model.PaymentResponse{Success: false, Error: err.Error()}, http.MethodPost, ROUTE_PAYMENTS)
		return
	}

	slog.Info("[RT:Payment:Save:02] - Request processed", "id", payment.ID, "duration", time.Since(tStart))
	h.respondJSON(w, http.StatusCreated, model.PaymentResponse{Success: true, Payment: payment}, http.MethodPost, ROUTE_PAYMENTS)
}

func (h *paymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues(http.MethodGet, ROUTE_PAYMENTS))
	defer timer.ObserveDuration()

	payments, err := h.Svc.ListPayments(r.Context())
	if err != nil {
		slog.Error("[RT:Payment:List:01] - Failed to list payments", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, model.PaymentListResponse{Success: false, Payments: []domain.Payment{}, Error: err.Error()}, http.MethodGet, ROUTE_PAYMENTS)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	h.respondJSON(w, http.StatusOK, model.PaymentListResponse{Success: true, Payments: payments}, http.MethodGet, ROUTE_PAYMENTS)
}

func (h *paymentHandler) respondJSON(w http.ResponseWriter, code int, payload any, method, endpoint string) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("[RT:Respond] - Failed to encode response", "error", err)
	}
}
