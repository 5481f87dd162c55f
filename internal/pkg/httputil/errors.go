package httputil

import (
	"context"
	"net/http"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/ctxlog"
)

// ServerError logs err under op with the request logger and answers 500.
// Store and session failures never reach the client body.
func ServerError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	ctxlog.FromContext(ctx).Error("request failed", "op", op, "error", err)
	Text(w, http.StatusInternalServerError, "internal error")
}
