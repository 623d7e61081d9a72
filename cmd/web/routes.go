package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		base = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(
				app.crossOriginProtection(next))))
		}
		session = func(next http.Handler) http.Handler {
			return base(noCache(app.sessionManager.LoadAndSave(next)))
		}
	)

	mux.Handle("POST /api/plans", session(http.HandlerFunc(app.planPOST)))

	mux.Handle("GET /api/exercises", base(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/{exerciseID}", base(http.HandlerFunc(app.exerciseDetailGET)))

	mux.Handle("GET /api/preferences", session(http.HandlerFunc(app.preferencesGET)))
	mux.Handle("PUT /api/preferences", session(http.HandlerFunc(app.preferencesPUT)))

	mux.Handle("GET /api/healthy", base(http.HandlerFunc(app.healthy)))

	mux.Handle("/", base(http.HandlerFunc(app.notFound)))

	return mux
}
