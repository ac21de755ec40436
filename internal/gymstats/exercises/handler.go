package exercises

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	List(ctx context.Context) ([]Summary, error)
	History(ctx context.Context, id, limit int) (*Exercise, []HistoryEntry, error)
	Progress(ctx context.Context, id int, metric Metric, days int) (*Exercise, []ProgressPoint, error)
}

type ListResponse struct {
	Exercises []Summary `json:"exercises"`
}

type HistoryResponse struct {
	ExerciseID   int            `json:"exercise_id"`
	ExerciseName string         `json:"exercise_name"`
	History      []HistoryEntry `json:"history"`
}

type ProgressResponse struct {
	ExerciseID   int             `json:"exercise_id"`
	ExerciseName string          `json:"exercise_name"`
	Metric       Metric          `json:"metric"`
	Data         []ProgressPoint `json:"data"`
}

type Handler struct {
	repo      exercisesRepo
	errWriter pkg.ErrorWriter
}

func NewHandler(repo exercisesRepo, errWriter pkg.ErrorWriter) *Handler {
	return &Handler{
		repo:      repo,
		errWriter: errWriter,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	exercisesRouter := apiRouter.PathPrefix("/exercises").Subrouter()
	exercisesRouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("exercises-list")
	exercisesRouter.HandleFunc("/{id}/history", handler.HandleHistory).Methods("GET", "OPTIONS").Name("exercises-history")
	exercisesRouter.HandleFunc("/{id}/progress", handler.HandleProgress).Methods("GET", "OPTIONS").Name("exercises-progress")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	summaries, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		span.SetStatus(codes.Error, err.Error())
		handler.errWriter.Internal(w, "Failed to fetch exercises", err)
		return
	}

	pkg.WriteJSONResponseOK(w, ListResponse{Exercises: summaries})
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.history")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	limit, err := pkg.QueryLimit(r.URL.Query(), "limit", DefaultHistoryLimit, MaxHistoryLimit)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	exercise, history, err := handler.repo.History(ctx, id, limit)
	if err != nil {
		handler.writeRepoError(w, span, "Failed to fetch exercise history", id, err)
		return
	}

	pkg.WriteJSONResponseOK(w, HistoryResponse{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		History:      history,
	})
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.progress")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	query := r.URL.Query()
	metric, err := ParseMetric(query.Get("metric"))
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid metric parameter")
		return
	}
	days, err := pkg.QueryLimit(query, "days", DefaultProgressDays, MaxProgressDays)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	exercise, points, err := handler.repo.Progress(ctx, id, metric, days)
	if err != nil {
		handler.writeRepoError(w, span, "Failed to fetch exercise progress", id, err)
		return
	}

	pkg.WriteJSONResponseOK(w, ProgressResponse{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		Metric:       metric,
		Data:         points,
	})
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, span trace.Span, message string, id int, err error) {
	if errors.Is(err, ErrExerciseNotFound) {
		pkg.WriteJSONError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	log.Errorf("%s [exercise %d]: %s", message, id, err)
	span.SetStatus(codes.Error, err.Error())
	handler.errWriter.Internal(w, message, err)
}
