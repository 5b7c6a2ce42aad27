package httpapi

import (
	"net/http"

	idgen "github.com/riskibarqy/fpl-team-builder/internal/platform/id"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
)

const requestIDPrefix = "req-"

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// Metrics is optional; nil disables request metrics and /metrics.
	Metrics *Metrics
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerPlayerRoutes(mux, handler)
	registerTeamRoutes(mux, handler)
	registerAIRoutes(mux, handler)

	var routed http.Handler = mux
	if opts.Metrics != nil {
		routed = opts.Metrics.Instrument(mux)
	}

	chain := recoverPanic(logger, routed)
	chain = CORS(opts.CORSAllowedOrigins, chain)
	chain = RequestLogging(logger, chain)
	chain = RequestID(idgen.NewUUIDGenerator(requestIDPrefix), chain)
	return RequestTracing(chain)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
