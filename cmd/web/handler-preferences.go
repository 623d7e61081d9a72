package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ellis-guo/fitweek/internal/plan"
)

const sessionKeyPreferences = "preferences"

// preferences are the session-scoped defaults applied to plan requests that
// omit the corresponding fields.
type preferences struct {
	TrainingDays        int            `json:"training_days"`
	MuscleTiers         map[string]int `json:"muscle_tiers,omitempty"`
	ExcludedExerciseIDs []int          `json:"excluded_exercise_ids,omitempty"`
}

func defaultPreferences() preferences {
	return preferences{TrainingDays: 3}
}

// loadPreferences reads the stored preferences from the session, falling back
// to defaults when nothing is stored or the stored payload does not parse.
func (app *application) loadPreferences(ctx context.Context) preferences {
	raw := app.sessionManager.GetString(ctx, sessionKeyPreferences)
	if raw == "" {
		return defaultPreferences()
	}

	var prefs preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "discarding unparseable session preferences",
			slog.Any("error", err))
		return defaultPreferences()
	}
	return prefs
}

func (app *application) preferencesGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.loadPreferences(r.Context()))
}

func (app *application) preferencesPUT(w http.ResponseWriter, r *http.Request) {
	var prefs preferences
	if err := readJSON(r, &prefs); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := validatePreferences(prefs); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	encoded, err := json.Marshal(prefs)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(r.Context(), sessionKeyPreferences, string(encoded))

	app.writeJSON(w, r, http.StatusOK, prefs)
}

// validatePreferences applies the same bounds as plan generation so that bad
// values are rejected at save time instead of surfacing on the next plan run.
func validatePreferences(prefs preferences) error {
	if prefs.TrainingDays < 1 || prefs.TrainingDays > 7 {
		return &plan.InvalidConfigurationError{
			Field:  "training_days",
			Reason: "must be between 1 and 7",
		}
	}
	known := make(map[string]bool)
	for _, g := range plan.MuscleGroups() {
		known[string(g)] = true
	}
	for group, tier := range prefs.MuscleTiers {
		if !known[group] {
			return &plan.InvalidConfigurationError{
				Field:  "muscle_tiers",
				Reason: "unknown muscle group " + group,
			}
		}
		if tier < plan.MinTier || tier > plan.MaxTier {
			return &plan.InvalidConfigurationError{
				Field:  "muscle_tiers",
				Reason: "tiers must be between 1 and 5",
			}
		}
	}
	return nil
}
