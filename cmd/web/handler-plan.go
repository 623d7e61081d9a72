package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ellis-guo/fitweek/internal/errors"
	"github.com/ellis-guo/fitweek/internal/plan"
	"github.com/google/uuid"
)

// planRequest uses a pointer for training_days so an omitted field falls back
// to the session preferences while an explicit zero still fails validation.
type planRequest struct {
	TrainingDays        *int           `json:"training_days"`
	MuscleTiers         map[string]int `json:"muscle_tiers"`
	ExcludedExerciseIDs []int          `json:"excluded_exercise_ids"`
}

type planResponse struct {
	PlanID      string    `json:"plan_id"`
	GeneratedAt time.Time `json:"generated_at"`
	plan.WeeklyPlan
}

// planPOST generates a weekly workout plan. Fields omitted from the request
// body fall back to the preferences stored in the session.
func (app *application) planPOST(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	prefs := app.loadPreferences(r.Context())
	trainingDays := prefs.TrainingDays
	if req.TrainingDays != nil {
		trainingDays = *req.TrainingDays
	}
	if req.MuscleTiers == nil {
		req.MuscleTiers = prefs.MuscleTiers
	}
	if req.ExcludedExerciseIDs == nil {
		req.ExcludedExerciseIDs = prefs.ExcludedExerciseIDs
	}

	ctx, cancel := context.WithTimeout(r.Context(), app.planTimeout)
	defer cancel()

	weekly, err := app.planService.GeneratePlan(ctx, plan.Request{
		TrainingDays:        trainingDays,
		MuscleTiers:         tierConfigFromMap(req.MuscleTiers),
		ExcludedExerciseIDs: req.ExcludedExerciseIDs,
	})
	if err != nil {
		app.planError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, planResponse{
		PlanID:      uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		WeeklyPlan:  weekly,
	})
}

// planError maps plan generation failures to HTTP statuses.
func (app *application) planError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidErr      *plan.InvalidConfigurationError
		insufficientErr *plan.InsufficientCandidatesError
	)
	switch {
	case errors.As(err, &invalidErr):
		app.clientError(w, r, http.StatusBadRequest, invalidErr.Error())
	case errors.As(err, &insufficientErr):
		app.clientError(w, r, http.StatusUnprocessableEntity, insufficientErr.Error())
	case errors.Is(err, plan.ErrCatalogUnavailable):
		app.clientError(w, r, http.StatusServiceUnavailable, "exercise catalog unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		app.clientError(w, r, http.StatusServiceUnavailable, "plan generation timed out")
	default:
		app.serverError(w, r, err)
	}
}

// tierConfigFromMap keeps unknown group names so that validation can reject
// them with a precise message.
func tierConfigFromMap(tiers map[string]int) plan.TierConfig {
	if tiers == nil {
		return nil
	}
	config := make(plan.TierConfig, len(tiers))
	for group, tier := range tiers {
		config[plan.MuscleGroup(group)] = tier
	}
	return config
}
