package handlers

import (
	"net/http"

	"github.com/epicgamers652-droid/IN-APP/internal/service"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

type SearchHandler struct {
	search SearchService
}

func NewSearchHandler(search SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search GET /api/search?q=&type=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.search.Search(r.Context(), q.Get("q"), service.SearchType(q.Get("type")))
	if err != nil {
		transport.MapError(w, r, err, "Search failed")
		return
	}
	transport.WriteJSON(w, http.StatusOK, res)
}
