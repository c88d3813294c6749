package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pawelnowak/fiszki-ai/apiclient"
	"github.com/pawelnowak/fiszki-ai/auth"
	"github.com/pawelnowak/fiszki-ai/cache"
	"github.com/pawelnowak/fiszki-ai/middleware"
	"github.com/pawelnowak/fiszki-ai/models"
	"github.com/pawelnowak/fiszki-ai/review"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the embedded stylesheet and other assets under /static/.
func Static() http.Handler {
	return http.StripPrefix("/", http.FileServer(http.FS(staticFS)))
}

// Handler carries the shared collaborators of every page and action handler.
type Handler struct {
	API      *apiclient.Client
	Auth     *auth.Client
	Sessions *auth.SessionStore
	Cache    *cache.Query
	Reviews  *review.Store
	Log      *zap.Logger

	templates map[string]*template.Template
}

// New parses the embedded templates and wires the handler.
func New(api *apiclient.Client, authClient *auth.Client, sessions *auth.SessionStore,
	queryCache *cache.Query, reviews *review.Store, log *zap.Logger) (*Handler, error) {

	h := &Handler{
		API:      api,
		Auth:     authClient,
		Sessions: sessions,
		Cache:    queryCache,
		Reviews:  reviews,
		Log:      log,
	}

	pages, err := templateFS.ReadDir("templates/pages")
	if err != nil {
		return nil, err
	}
	h.templates = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := page.Name()
		tmpl, err := template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/pages/"+name,
		)
		if err != nil {
			return nil, err
		}
		h.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return h, nil
}

// pageData is what the layout and every page template render from. Alert is
// an inline error banner for failures rendered in the same response; Toasts
// are one-shot flashes that survive a redirect.
type pageData struct {
	Title  string
	User   *models.User
	Alert  string
	Toasts []auth.Toast
	Data   any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	h.renderAlert(w, r, status, page, title, "", data)
}

func (h *Handler) renderAlert(w http.ResponseWriter, r *http.Request, status int, page, title, alert string, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.Log.Error("unknown template", zap.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Auth-derived UI (user dropdown, mobile drawer) reads the user from the
	// session store; it is absent entirely when unauthenticated.
	user, err := h.Sessions.CurrentUser(r)
	if err != nil {
		user = nil
	}

	pd := pageData{
		Title:  title,
		User:   user,
		Alert:  alert,
		Toasts: h.Sessions.Toasts(w, r),
		Data:   data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", pd); err != nil {
		h.Log.Error("render failed", zap.String("page", page), zap.Error(err))
	}
}

// token returns the session access token or redirects to login carrying the
// current path. Handlers behind the auth middleware normally have one; this
// is the per-handler guard for the window where the cookie expires mid-flow.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, err := h.Sessions.AccessToken(r)
	if err != nil {
		redirectToLogin(w, r)
		return "", false
	}
	return token, true
}

// currentUser prefers the identity the auth middleware validated and attached;
// the session cookie is the fallback for routes that run without it.
func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	if user, ok := middleware.UserFrom(r.Context()); ok {
		return user, nil
	}
	return h.Sessions.CurrentUser(r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/auth/") {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, loginTarget(r.URL.RequestURI()), http.StatusSeeOther)
}
