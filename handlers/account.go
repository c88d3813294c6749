package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pawelnowak/fiszki-ai/utils"
)

// Logout signs the session out at the auth provider, clears the cookie and
// sends the user home. When the provider call fails the session is left
// untouched and the failure surfaces as a toast, so the user can retry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := h.Sessions.AccessToken(r)
	if err != nil {
		// No session to end; behave idempotently.
		h.respondLoggedOut(w, r)
		return
	}

	if err := h.Auth.SignOut(r.Context(), token); err != nil {
		h.Log.Warn("logout failed", zap.Error(err))
		h.respondAccountError(w, r, msgLogoutFailed)
		return
	}

	if user, err := h.currentUser(r); err == nil {
		h.Reviews.Delete(user.ID)
	}
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
	}
	h.respondLoggedOut(w, r)
}

// DeleteAccount removes the account after the blocking confirmation dialog
// in the UI. Order matters: the admin delete first, then sign-out and cookie
// clear; any failure leaves the session exactly as it was.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	token, err := h.Sessions.AccessToken(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	user, err := h.currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	if err := h.Auth.DeleteUser(r.Context(), user.ID.String()); err != nil {
		h.Log.Error("account deletion failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		h.respondAccountError(w, r, msgDeleteFailed)
		return
	}

	// The account is gone; a signout failure now is not worth keeping the
	// cookie around for.
	if err := h.Auth.SignOut(r.Context(), token); err != nil {
		h.Log.Warn("signout after deletion failed", zap.Error(err))
	}
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
	}
	h.Reviews.Delete(user.ID)

	if wantsJSON(r) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Konto zostało usunięte"})
		return
	}
	h.Sessions.AddToast(w, r, "success", "Konto zostało usunięte")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) respondLoggedOut(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Wylogowano"})
		return
	}
	h.Sessions.AddToast(w, r, "success", "Wylogowano pomyślnie")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) respondAccountError(w http.ResponseWriter, r *http.Request, message string) {
	if wantsJSON(r) {
		utils.WriteJSONError(w, http.StatusBadGateway, "auth_provider_error", message)
		return
	}
	h.Sessions.AddToast(w, r, "error", message)
	back := r.Header.Get("Referer")
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
