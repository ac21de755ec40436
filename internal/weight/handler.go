package weight

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

//go:generate mockgen -source=$GOFILE -destination=weight_mocks_test.go -package=weight_test

type weightRepo interface {
	Logs(ctx context.Context, params ListParams) ([]Log, *Stats, error)
}

type LogsResponse struct {
	Logs  []Log  `json:"logs"`
	Stats *Stats `json:"stats"`
}

type Handler struct {
	repo      weightRepo
	errWriter pkg.ErrorWriter
}

func NewHandler(repo weightRepo, errWriter pkg.ErrorWriter) *Handler {
	return &Handler{
		repo:      repo,
		errWriter: errWriter,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	apiRouter.HandleFunc("/weight", handler.HandleLogs).Methods("GET", "OPTIONS").Name("weight-logs")
}

func (handler *Handler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weight.logs")
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
		log.Errorf("weight logs: %s", err)
		span.SetStatus(codes.Error, err.Error())
		handler.errWriter.Internal(w, "Failed to fetch weight logs", err)
		return
	}

	pkg.WriteJSONResponseOK(w, LogsResponse{
		Logs:  logs,
		Stats: stats,
	})
}
