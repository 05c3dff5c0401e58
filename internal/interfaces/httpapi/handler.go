package httpapi

import (
	"github.com/valyala/fasthttp"

	"github.com/fightsync/fightsync/internal/platform/logging"
	"github.com/fightsync/fightsync/internal/usecase"
)

type Handler struct {
	catalog *usecase.CatalogService
	logger  *logging.Logger
}

func NewHandler(catalog *usecase.CatalogService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{catalog: catalog, logger: logger}
}

func (h *Handler) Health(rc *fasthttp.RequestCtx) {
	writeSuccess(rc, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListEvents(rc *fasthttp.RequestCtx) {
	limit := rc.QueryArgs().GetUintOrZero("limit")

	items, err := h.catalog.RecentEvents(rc, limit)
	if err != nil {
		h.logger.ErrorContext(rc, "list events failed", "error", err)
		writeError(rc, err)
		return
	}

	out := make([]eventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventToDTO(item))
	}

	writeSuccess(rc, fasthttp.StatusOK, out)
}

func (h *Handler) GetEvent(rc *fasthttp.RequestCtx, id int64) {
	card, err := h.catalog.EventCard(rc, id)
	if err != nil {
		h.logger.WarnContext(rc, "get event failed", "event_id", id, "error", err)
		writeError(rc, err)
		return
	}

	writeSuccess(rc, fasthttp.StatusOK, eventCardToDTO(*card))
}

func (h *Handler) GetFighter(rc *fasthttp.RequestCtx, id int64) {
	item, err := h.catalog.FighterByID(rc, id)
	if err != nil {
		h.logger.WarnContext(rc, "get fighter failed", "fighter_id", id, "error", err)
		writeError(rc, err)
		return
	}

	writeSuccess(rc, fasthttp.StatusOK, fighterToDTO(*item))
}
