package http

import (
	"net/http"

	"github.com/taskcrate/backend/internal/common/constants"
	"github.com/taskcrate/backend/internal/common/httpmetrics"
	"github.com/taskcrate/backend/internal/common/logger"
)

// BuildBaseHandler wraps the router with the ambient middleware stack,
// outermost first: security headers, panic recovery, trace ids, body
// size cap, request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
