package sleep

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=sleep_mocks_test.go -package=sleep_test

type sleepRepo interface {
	Logs(ctx context.Context, params ListParams) ([]Log, *Stats, error)
}

type LogsResponse struct {
	Logs  []Log  `json:"logs"`
	Stats *Stats `json:"stats"`
}

type Handler struct {
	repo      sleepRepo
	errWriter pkg.ErrorWriter
}

func NewHandler(repo sleepRepo, errWriter pkg.ErrorWriter) *Handler {
	return &Handler{
		repo:      repo,
		errWriter: errWriter,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	apiRouter.HandleFunc("/sleep", handler.HandleLogs).Methods("GET", "OPTIONS").Name("sleep-logs")
}

func (handler *Handler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sleep.logs")
	defer span.End()

	query := r.URL.Query()
	limit, err := pkg.QueryLimit(query, "limit", DefaultLogsLimit, MaxLogsLimit)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	dateRange, err := pkg.QueryDateRange(query)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("limit", limit))

	logs, stats, err := handler.repo.Logs(ctx, ListParams{
		Limit:     limit,
		DateRange: dateRange,
	})
	if err != nil {
		log.Errorf("sleep logs: %s", err)
		span.SetStatus(codes.Error, err.Error())
		handler.errWriter.Internal(w, "Failed to fetch sleep logs", err)
		return
	}

	pkg.WriteJSONResponseOK(w, LogsResponse{
		Logs:  logs,
		Stats: stats,
	})
}
