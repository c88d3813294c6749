package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pawelnowak/fiszki-ai/forms"
)

// authFormData feeds the auth form templates: submitted values for
// redisplay, per-field errors and the post-login return target.
type authFormData struct {
	Email    string
	Redirect string
	Token    string
	Errors   forms.FieldErrors
	// RedirectURL and DelaySeconds drive the post-success confirmation page.
	RedirectURL  string
	DelaySeconds int
}

// safeRedirect keeps the return target on-site. Anything absolute or
// protocol-relative falls back to the default destination.
func safeRedirect(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return fallback
	}
	return raw
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", "Logowanie", authFormData{
		Redirect: safeRedirect(r.URL.Query().Get("redirect"), ""),
		Errors:   forms.FieldErrors{},
	})
}

// Login validates credentials locally, then signs in with the auth provider.
// Validation failures never reach the network.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := forms.LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	redirect := safeRedirect(r.PostFormValue("redirect"), "")

	if errs := forms.Validate(form); len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Logowanie", authFormData{
			Email: form.Email, Redirect: redirect, Errors: errs,
		})
		return
	}

	session, err := h.Auth.SignInWithPassword(r.Context(), form.Email, form.Password)
	if err != nil {
		h.Log.Info("login failed", zap.String("email", form.Email), zap.Error(err))
		h.renderAlert(w, r, http.StatusUnauthorized, "login", "Logowanie", authErrorMessage(err, false), authFormData{
			Email: form.Email, Redirect: redirect, Errors: forms.FieldErrors{},
		})
		return
	}

	if err := h.Sessions.Save(w, r, session); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		h.renderAlert(w, r, http.StatusInternalServerError, "login", "Logowanie", msgGenericFailure, authFormData{
			Email: form.Email, Redirect: redirect, Errors: forms.FieldErrors{},
		})
		return
	}

	h.Sessions.AddToast(w, r, "success", "Zalogowano pomyślnie")
	http.Redirect(w, r, safeRedirect(redirect, "/generate"), http.StatusSeeOther)
}

// RegisterPage renders the sign-up form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Rejestracja", authFormData{Errors: forms.FieldErrors{}})
}

// Register creates the account, signs the user in and shows a confirmation
// page that redirects after a short delay, giving the session cookie time to
// land before the first authenticated navigation.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form := forms.RegisterForm{
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	if errs := forms.Validate(form); len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "register", "Rejestracja", authFormData{
			Email: form.Email, Errors: errs,
		})
		return
	}

	session, err := h.Auth.SignUp(r.Context(), form.Email, form.Password)
	if err != nil {
		h.Log.Info("registration failed", zap.String("email", form.Email), zap.Error(err))
		h.renderAlert(w, r, http.StatusUnprocessableEntity, "register", "Rejestracja", authErrorMessage(err, false), authFormData{
			Email: form.Email, Errors: forms.FieldErrors{},
		})
		return
	}

	if session.AccessToken != "" {
		if err := h.Sessions.Save(w, r, session); err != nil {
			h.Log.Error("session save failed", zap.Error(err))
		}
	}

	h.Sessions.AddToast(w, r, "success", "Konto utworzone pomyślnie")
	h.render(w, r, http.StatusOK, "redirecting", "Rejestracja", authFormData{
		RedirectURL: "/generate", DelaySeconds: 2,
	})
}

// ResetPasswordPage renders the recovery-request form.
func (h *Handler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "reset_password", "Reset hasła", authFormData{Errors: forms.FieldErrors{}})
}

// ResetPassword asks the backend to send a recovery link. The response is
// identical whether or not the address exists.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	form := forms.ResetRequestForm{Email: strings.TrimSpace(r.PostFormValue("email"))}

	if errs := forms.Validate(form); len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "reset_password", "Reset hasła", authFormData{
			Email: form.Email, Errors: errs,
		})
		return
	}

	if err := h.API.RequestPasswordReset(r.Context(), form.Email); err != nil {
		h.Log.Info("reset request failed", zap.Error(err))
		h.renderAlert(w, r, http.StatusUnprocessableEntity, "reset_password", "Reset hasła", apiErrorMessage(err), authFormData{
			Email: form.Email, Errors: forms.FieldErrors{},
		})
		return
	}

	h.Sessions.AddToast(w, r, "success", "Jeśli konto istnieje, wysłaliśmy link do resetu hasła")
	h.render(w, r, http.StatusOK, "redirecting", "Reset hasła", authFormData{
		RedirectURL: "/auth/login", DelaySeconds: 2,
	})
}

// UpdatePasswordPage renders the new-password form reached from the recovery
// link. The link session token travels in the URL fragment; a small script on
// the page copies it into the form's hidden field.
func (h *Handler) UpdatePasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "update_password", "Nowe hasło", authFormData{Errors: forms.FieldErrors{}})
}

// UpdatePassword sets the new password using the recovery-link token.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	form := forms.UpdatePasswordForm{
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	token := r.PostFormValue("token")

	if errs := forms.Validate(form); len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "update_password", "Nowe hasło", authFormData{
			Token: token, Errors: errs,
		})
		return
	}
	if token == "" {
		h.renderAlert(w, r, http.StatusUnauthorized, "update_password", "Nowe hasło", msgLinkExpired, authFormData{
			Errors: forms.FieldErrors{},
		})
		return
	}

	if err := h.API.UpdatePassword(r.Context(), token, form.Password); err != nil {
		h.Log.Info("password update failed", zap.Error(err))
		h.renderAlert(w, r, http.StatusUnauthorized, "update_password", "Nowe hasło", recoveryErrorMessage(err), authFormData{
			Token: token, Errors: forms.FieldErrors{},
		})
		return
	}

	h.Sessions.AddToast(w, r, "success", "Hasło zostało zmienione. Zaloguj się ponownie.")
	h.render(w, r, http.StatusOK, "redirecting", "Nowe hasło", authFormData{
		RedirectURL: "/auth/login", DelaySeconds: 1,
	})
}

// loginTarget builds the login URL that returns to path afterwards.
func loginTarget(path string) string {
	return "/auth/login?redirect=" + url.QueryEscape(path)
}
