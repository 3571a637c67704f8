package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/nikolayk812/sessioncart/internal/errors"
	"github.com/nikolayk812/sessioncart/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its code's status. Internal failures are logged and
// answered with the public message only.
func writeError(r *http.Request, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := apperrors.As(err)
	if typed == nil {
		typed = apperrors.Wrap(apperrors.CodeInternal, err, "unexpected error")
	}

	meta := apperrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != apperrors.CodeInternal && typed.Message() != "" {
		msg = typed.Message()
	}

	if meta.HTTPStatus >= http.StatusInternalServerError && logg != nil {
		logCtx := logg.WithFields(r.Context(), map[string]any{
			"error_code": string(typed.Code()),
			"status":     meta.HTTPStatus,
		})
		logg.Error(logCtx, "request.failed", err)
	}

	writeJSON(w, meta.HTTPStatus, ErrorResponse{
		Error: msg,
		Code:  string(typed.Code()),
	})
}
