package workouts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	List(ctx context.Context, params ListParams) (_ []Summary, total int, err error)
	Get(ctx context.Context, id int) (*Detail, error)
	VolumeOverTime(ctx context.Context, days int, groupBy GroupBy) ([]VolumePoint, error)
}

type ListResponse struct {
	Workouts []Summary `json:"workouts"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

type VolumeResponse struct {
	Data []VolumePoint `json:"data"`
}

type Handler struct {
	repo      workoutsRepo
	errWriter pkg.ErrorWriter
}

func NewHandler(repo workoutsRepo, errWriter pkg.ErrorWriter) *Handler {
	return &Handler{
		repo:      repo,
		errWriter: errWriter,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	workoutsRouter := apiRouter.PathPrefix("/workouts").Subrouter()
	// registered before /{id} so "stats" is never taken for an id
	workoutsRouter.HandleFunc("/stats/volume-over-time", handler.HandleVolumeOverTime).Methods("GET", "OPTIONS").Name("workouts-volume")
	workoutsRouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("workouts-list")
	workoutsRouter.HandleFunc("/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("workouts-get")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	query := r.URL.Query()
	limit, err := pkg.QueryLimit(query, "limit", DefaultListLimit, MaxListLimit)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := pkg.QueryOffset(query, "offset")
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
	span.SetAttributes(attribute.Int("offset", offset))

	summaries, total, err := handler.repo.List(ctx, ListParams{
		Limit:     limit,
		Offset:    offset,
		DateRange: dateRange,
	})
	if err != nil {
		log.Errorf("list workouts: %s", err)
		span.SetStatus(codes.Error, err.Error())
		handler.errWriter.Internal(w, "Failed to fetch workouts", err)
		return
	}

	pkg.WriteJSONResponseOK(w, ListResponse{
		Workouts: summaries,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	detail, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Workout not found")
			return
		}
		log.Errorf("get workout %d: %s", id, err)
		span.SetStatus(codes.Error, err.Error())
		handler.errWriter.Internal(w, "Failed to fetch workout", err)
		return
	}

	pkg.WriteJSONResponseOK(w, detail)
}

func (handler *Handler) HandleVolumeOverTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.volume")
	defer span.End()

	query := r.URL.Query()
	days, err := pkg.QueryLimit(query, "days", DefaultVolumeDays, MaxVolumeDays)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	groupBy, err := ParseGroupBy(query.Get("groupBy"))
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid groupBy parameter")
		return
	}

	points, err := handler.repo.VolumeOverTime(ctx, days, groupBy)
	if err != nil {
		log.Errorf("volume over time [%d days, by %s]: %s", days, groupBy, err)
		span.SetStatus(codes.Error, err.Error())
		handler.errWriter.Internal(w, "Failed to fetch volume statistics", err)
		return
	}

	pkg.WriteJSONResponseOK(w, VolumeResponse{Data: points})
}
