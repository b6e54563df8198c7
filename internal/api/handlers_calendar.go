package api

import (
	"net/http"
	"time"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/ics"
	"github.com/campusbeat/campusbeat/internal/services"
)

// CalendarHandler is a thin HTTP transport over CalendarService.
type CalendarHandler struct {
	svc           *services.CalendarService
	exportHorizon time.Duration
}

func NewCalendarHandler(svc *services.CalendarService, exportHorizon time.Duration) *CalendarHandler {
	return &CalendarHandler{svc: svc, exportHorizon: exportHorizon}
}

// Day GET /api/me/calendar?date=2026-03-14
// The date defaults to today (UTC) when omitted.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respond.WriteBadRequest(w, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}
	items, err := h.svc.ItemsForDay(r.Context(), user.UserID, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// Now GET /api/me/calendar/now
func (h *CalendarHandler) Now(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	cn, err := h.svc.CurrentAndNext(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, cn)
}

// Past GET /api/me/calendar/past
func (h *CalendarHandler) Past(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	items, err := h.svc.PastItems(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// Export GET /api/me/calendar/export.ics
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	items, err := h.svc.UpcomingItems(r.Context(), user.UserID, h.exportHorizon)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", ics.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="campusbeat.ics"`)
	_, _ = w.Write([]byte(ics.Export(items, time.Now().UTC())))
}

// Stats GET /api/me/stats
func (h *CalendarHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
