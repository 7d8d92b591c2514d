// ABOUTME: HTTP handlers for wellness logs, readiness, and insight reports.
// ABOUTME: Maps validation, not-found, and store failures onto status codes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/trend"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

type checkInRequest struct {
	Date         *models.Date `json:"date"`
	SleepHours   *float64     `json:"sleep_hours"`
	SleepQuality *int         `json:"sleep_quality"`
	Mood         *int         `json:"mood"`
	Energy       *int         `json:"energy"`
	Stress       *int         `json:"stress"`
}

type checkInResponse struct {
	CheckIn   *models.CheckIn        `json:"checkin"`
	Readiness models.ReadinessResult `json:"readiness"`
}

type workoutRequest struct {
	Date        *models.Date `json:"date"`
	Type        string       `json:"type"`
	DurationMin int          `json:"duration_min"`
	RPE         int          `json:"rpe"`
	Notes       string       `json:"notes"`
}

type mealRequest struct {
	Date     *models.Date `json:"date"`
	MealType string       `json:"meal_type"`
	Quality  int          `json:"quality"`
	Notes    string       `json:"notes"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeError(w, r, http.StatusNotFound, "endpoint_not_found", "The requested endpoint does not exist")
}

func (s *Server) createCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if !s.decode(w, r, &req) {
		return
	}

	c, err := req.checkIn(s.svc.Today())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c.ForUser(userID(r))

	res, err := s.svc.SubmitCheckIn(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkInResponse{CheckIn: c, Readiness: res})
}

func (req checkInRequest) checkIn(today models.Date) (*models.CheckIn, error) {
	required := []struct {
		field   string
		missing bool
	}{
		{"sleep_hours", req.SleepHours == nil},
		{"sleep_quality", req.SleepQuality == nil},
		{"mood", req.Mood == nil},
		{"energy", req.Energy == nil},
		{"stress", req.Stress == nil},
	}
	for _, f := range required {
		if f.missing {
			return nil, &models.ValidationError{Field: f.field, Reason: "required"}
		}
	}
	date := today
	if req.Date != nil {
		date = *req.Date
	}
	return models.NewCheckIn(date, *req.SleepHours, *req.SleepQuality, *req.Mood, *req.Energy, *req.Stress), nil
}

func (s *Server) listCheckIns(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.dateRange(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	checkIns, err := s.reader.GetCheckIns(r.Context(), userID(r), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if checkIns == nil {
		checkIns = []models.CheckIn{}
	}
	writeJSON(w, http.StatusOK, checkIns)
}

func (s *Server) deleteCheckIn(w http.ResponseWriter, r *http.Request) {
	date, err := s.pathDate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Writer.DeleteCheckIn(r.Context(), userID(r), date); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if !s.decode(w, r, &req) {
		return
	}

	date := s.svc.Today()
	if req.Date != nil {
		date = *req.Date
	}
	workout := models.NewWorkout(date, models.WorkoutType(req.Type), req.DurationMin, req.RPE).ForUser(userID(r))
	if req.Notes != "" {
		workout.WithNotes(req.Notes)
	}

	if err := s.svc.Writer.CreateWorkout(r.Context(), workout); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) listWorkouts(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.dateRange(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	workouts, err := s.reader.GetWorkouts(r.Context(), userID(r), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Writer.DeleteWorkout(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !s.decode(w, r, &req) {
		return
	}

	date := s.svc.Today()
	if req.Date != nil {
		date = *req.Date
	}
	meal := models.NewMeal(date, models.MealType(req.MealType), req.Quality).ForUser(userID(r))
	if req.Notes != "" {
		meal.WithNotes(req.Notes)
	}

	if err := s.svc.Writer.CreateMeal(r.Context(), meal); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.dateRange(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	meals, err := s.reader.GetMeals(r.Context(), userID(r), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) deleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Writer.DeleteMeal(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getReadiness(w http.ResponseWriter, r *http.Request) {
	date, err := s.pathDate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Readiness(r.Context(), userID(r), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	window, err := queryInt(r, "window")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.svc.Report(r.Context(), userID(r), window)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getTrends(w http.ResponseWriter, r *http.Request) {
	window, err := queryInt(r, "window")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var metrics []string
	if raw := r.URL.Query().Get("metrics"); raw != "" {
		metrics = strings.Split(raw, ",")
	}

	seq, err := s.svc.Trends(r.Context(), userID(r), metrics, window)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seq.Collect())
}

// decode reads a JSON body, rejecting unknown fields. It writes the error
// response itself and reports whether decoding succeeded.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// dateRange reads ?from=&to=, defaulting to the engine's window ending today.
func (s *Server) dateRange(r *http.Request) (models.Date, models.Date, error) {
	from, to := trend.Window(s.svc.Today(), s.svc.WindowDays())
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return from, to, &models.ValidationError{Field: "from", Value: v, Reason: "expected YYYY-MM-DD"}
		}
		from = d
	}
	if v := q.Get("to"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return from, to, &models.ValidationError{Field: "to", Value: v, Reason: "expected YYYY-MM-DD"}
		}
		to = d
	}
	if from.After(to) {
		return from, to, &models.ValidationError{Field: "from", Value: from.String(), Reason: "must not be after to"}
	}
	return from, to, nil
}

// pathDate reads {date}, accepting "today".
func (s *Server) pathDate(r *http.Request) (models.Date, error) {
	raw := mux.Vars(r)["date"]
	if raw == "today" {
		return s.svc.Today(), nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, &models.ValidationError{Field: "date", Value: raw, Reason: "expected YYYY-MM-DD or today"}
	}
	return d, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &models.ValidationError{Field: name, Value: raw, Reason: "must be a positive integer"}
	}
	return n, nil
}

func userID(r *http.Request) string {
	id, _ := UserIDFrom(r.Context())
	return id
}

// fail maps err onto a status code and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, r, http.StatusBadRequest, "invalid_input", ve.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, storage.ErrStoreUnavailable):
		s.logger.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("signal store unavailable")
		writeError(w, r, http.StatusServiceUnavailable, "store_unavailable", "The signal store is temporarily unavailable; retry later")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "timeout", "The request timed out")
	default:
		s.logger.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Fprintf(w, `{"error":"json_encoding_failed"}`)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: RequestIDFrom(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}
