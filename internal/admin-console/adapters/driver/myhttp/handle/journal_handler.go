package handle

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

type JournalHandler struct {
	journal ports.IJournalReader
	mylog   mylogger.Logger
}

func NewJournalHandler(mylog mylogger.Logger, journal ports.IJournalReader) *JournalHandler {
	return &JournalHandler{journal: journal, mylog: mylog}
}

// Recent lists the latest recorded admin actions, ?limit= capped at 500.
func (h *JournalHandler) Recent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultJournalLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				JsonError(w, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer"))
				return
			}
			limit = min(n, maxJournalLimit)
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime)
		defer cancel()

		entries, err := h.journal.Recent(ctx, limit)
		if err != nil {
			h.mylog.Action("journal_read_failed").Error("failed to read action journal", err)
			JsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to read journal"))
			return
		}
		JsonResponse(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
	}
}
