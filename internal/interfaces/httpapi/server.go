package httpapi

import (
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/fightsync/fightsync/internal/platform/logging"
)

const (
	eventsPrefix   = "/v1/events/"
	fightersPrefix = "/v1/fighters/"
)

// NewServer wires the read API routes into a fasthttp server.
func NewServer(handler *Handler, logger *logging.Logger) *fasthttp.Server {
	if logger == nil {
		logger = logging.Default()
	}

	return &fasthttp.Server{
		Name:    "fightsync-api",
		Handler: recoverPanic(logger, route(handler)),
	}
}

func route(handler *Handler) fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		if !rc.IsGet() {
			rc.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}

		path := string(rc.Path())
		switch {
		case path == "/v1/health":
			handler.Health(rc)
		case path == "/v1/events":
			handler.ListEvents(rc)
		case strings.HasPrefix(path, eventsPrefix):
			id, ok := parseID(strings.TrimPrefix(path, eventsPrefix))
			if !ok {
				rc.SetStatusCode(fasthttp.StatusNotFound)
				return
			}
			handler.GetEvent(rc, id)
		case strings.HasPrefix(path, fightersPrefix):
			id, ok := parseID(strings.TrimPrefix(path, fightersPrefix))
			if !ok {
				rc.SetStatusCode(fasthttp.StatusNotFound)
				return
			}
			handler.GetFighter(rc, id)
		default:
			rc.SetStatusCode(fasthttp.StatusNotFound)
		}
	}
}

func recoverPanic(logger *logging.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(rc, "panic recovered", "panic", rec, "path", string(rc.Path()))
				rc.ResetBody()
				rc.SetStatusCode(fasthttp.StatusInternalServerError)
			}
		}()
		next(rc)
	}
}

func parseID(raw string) (int64, bool) {
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}
