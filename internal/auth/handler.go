package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitdash/internal/middleware"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=auth_test

type tokenIssuer interface {
	Issue() (string, error)
	Expiry() time.Duration
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type Handler struct {
	tokens         tokenIssuer
	passwordHash   string
	metricsManager *metrics.Manager
	errWriter      pkg.ErrorWriter
}

func NewHandler(
	tokens tokenIssuer,
	passwordHash string,
	metricsManager *metrics.Manager,
	errWriter pkg.ErrorWriter,
) *Handler {
	return &Handler{
		tokens:         tokens,
		passwordHash:   passwordHash,
		metricsManager: metricsManager,
		errWriter:      errWriter,
	}
}

func (handler *Handler) SetupRoutes(
	apiRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginLimit middleware.RateLimitParams,
) {
	authSubrouter := apiRouter.PathPrefix("/auth").Subrouter()
	authSubrouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")

	// brute force protection for the single admin password
	authSubrouter.Use(middleware.RateLimit(rateLimiter, loginLimit, handler.metricsManager))
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Tracef("login, unmarshal json body: %s", err)
	}

	if loginReq.Password == "" {
		handler.countAttempt("bad_request")
		span.SetStatus(codes.Error, "password-missing")
		pkg.WriteJSONError(w, http.StatusBadRequest, "Password is required")
		return
	}

	if handler.passwordHash == "" {
		log.Errorln("login attempt, but admin password hash is not configured, set ADMIN_PASSWORD_HASH")
		handler.countAttempt("not_configured")
		span.SetStatus(codes.Error, "hash-not-configured")
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Server authentication not configured")
		return
	}

	if !pkg.CheckPasswordHash(loginReq.Password, handler.passwordHash) {
		reqIP, _ := pkg.ReadUserIP(r, false)
		log.Warnf("failed login attempt from [%s], forwarded for [%s]", reqIP, r.Header.Get("X-Forwarded-For"))
		handler.countAttempt("invalid_password")
		span.SetStatus(codes.Error, "invalid-password")
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := handler.tokens.Issue()
	if err != nil {
		log.Errorf("login failed, issue token: %s", err)
		handler.countAttempt("error")
		span.RecordError(err)
		handler.errWriter.Internal(w, "Authentication failed", err)
		return
	}

	handler.countAttempt("success")
	log.Debugln("new login success")
	pkg.WriteJSONResponseOK(w, LoginResponse{
		Token:     token,
		ExpiresIn: int64(handler.tokens.Expiry().Seconds()),
	})
}

func (handler *Handler) countAttempt(outcome string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterLoginAttempts.WithLabelValues(outcome).Inc()
}
