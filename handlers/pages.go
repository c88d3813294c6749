package handlers

import "net/http"

// HomePage is the public landing page. Authenticated users are sent straight
// to the generation page.
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, err := h.Sessions.CurrentUser(r); err == nil {
		http.Redirect(w, r, "/generate", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "home", "Fiszki AI", nil)
}

// Health is the liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
