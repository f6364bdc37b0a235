package handler

import "net/http"

// Version is the API version reported by GET /api.
const Version = "1.0.0"

// HandleRoot is a plain-text liveness check.
//
// HTTP: GET /
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("HealthTrack backend is running"))
}

// HandleAPIInfo reports the API name and version.
//
// HTTP: GET /api
func HandleAPIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "HealthTrack API is running",
		"version": Version,
	})
}
