package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitdash/pkg"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type Handler struct {
	db           dbPinger
	rdb          redisPinger
	checkTimeout time.Duration
	now          func() time.Time
}

func NewHandler(db dbPinger, rdb redisPinger, checkTimeout time.Duration) *Handler {
	return &Handler{
		db:           db,
		rdb:          rdb,
		checkTimeout: checkTimeout,
		now:          time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/health", handler.HandleHealth).Methods("GET").Name("health")
	router.HandleFunc("/health/ready", handler.HandleReady).Methods("GET").Name("health-ready")
}

// HandleHealth reports liveness only and never touches a dependency.
func (handler *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, Response{
		Status:    StatusOK,
		Timestamp: handler.now().UTC(),
	})
}

func (handler *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handler.checkTimeout)
	defer cancel()

	resp := ReadyResponse{
		Status: StatusOK,
		Checks: map[string]string{
			"postgres": StatusOK,
			"redis":    StatusOK,
		},
	}
	if err := handler.db.Ping(ctx); err != nil {
		log.Warnf("readiness: postgres ping: %s", err)
		resp.Status = StatusUnavailable
		resp.Checks["postgres"] = err.Error()
	}
	if err := handler.rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("readiness: redis ping: %s", err)
		resp.Status = StatusUnavailable
		resp.Checks["redis"] = err.Error()
	}

	if resp.Status != StatusOK {
		pkg.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	pkg.WriteJSONResponseOK(w, resp)
}
