package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/notexhq/notex-backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error's kind to a status code and responds with the
// {"detail": msg} body every client of this API expects. The collaborator's
// message is preserved as the detail text.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("kind", kind.String()), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.String("kind", kind.String()), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
