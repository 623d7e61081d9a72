package main

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ellis-guo/fitweek/internal/errors"
	"github.com/ellis-guo/fitweek/internal/plan"
	"github.com/yuin/goldmark"
)

type exerciseDetailResponse struct {
	plan.ExerciseDetail
	InstructionsHTML string `json:"instructions_html"`
}

// exercisesGET lists the full exercise catalog.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.planService.ListExercises(r.Context())
	if err != nil {
		if errors.Is(err, plan.ErrCatalogUnavailable) {
			app.clientError(w, r, http.StatusServiceUnavailable, "exercise catalog unavailable")
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, exercises)
}

// exerciseDetailGET returns one exercise with its instructional steps, both as
// the raw step list and rendered to HTML.
func (app *application) exerciseDetailGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := strconv.Atoi(r.PathValue("exerciseID"))
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, "not found")
		return
	}

	detail, err := app.planService.GetExerciseDetail(r.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.clientError(w, r, http.StatusNotFound, "exercise not found")
			return
		}
		app.serverError(w, r, err)
		return
	}

	html, err := renderInstructions(detail.Steps)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, exerciseDetailResponse{
		ExerciseDetail:   detail,
		InstructionsHTML: html,
	})
}

// renderInstructions renders the steps as a markdown ordered list and converts
// it to HTML.
func renderInstructions(steps []string) (string, error) {
	var markdown strings.Builder
	for i, step := range steps {
		fmt.Fprintf(&markdown, "%d. %s\n", i+1, step)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown.String()), &buf); err != nil {
		return "", fmt.Errorf("render instructions: %w", err)
	}
	return buf.String(), nil
}
