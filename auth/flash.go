package auth

import (
	"encoding/gob"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const flashName = "fiszki_flash"

// Toast is a one-shot notification rendered on the next page load.
type Toast struct {
	ID      string
	Kind    string // "success" | "error"
	Message string
}

func init() {
	gob.Register(Toast{})
}

// AddToast queues a toast for the next rendered page.
func (s *SessionStore) AddToast(w http.ResponseWriter, r *http.Request, kind, message string) {
	id, err := gonanoid.New()
	if err != nil {
		id = "toast"
	}
	cookie, _ := s.store.Get(r, flashName)
	cookie.AddFlash(Toast{ID: id, Kind: kind, Message: message})
	_ = s.store.Save(r, w, cookie)
}

// Toasts drains queued toasts for rendering.
func (s *SessionStore) Toasts(w http.ResponseWriter, r *http.Request) []Toast {
	cookie, _ := s.store.Get(r, flashName)
	flashes := cookie.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = s.store.Save(r, w, cookie)

	toasts := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		if t, ok := f.(Toast); ok {
			toasts = append(toasts, t)
		}
	}
	return toasts
}
