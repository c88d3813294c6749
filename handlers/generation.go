package handlers

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pawelnowak/fiszki-ai/apiclient"
	"github.com/pawelnowak/fiszki-ai/cache"
	"github.com/pawelnowak/fiszki-ai/forms"
	"github.com/pawelnowak/fiszki-ai/models"
	"github.com/pawelnowak/fiszki-ai/review"
)

// Source-text bounds, in characters. The submit button stays disabled
// outside this range; the server check is the authoritative one.
const (
	GenerationMinChars = 1000
	GenerationMaxChars = 10000
)

type generationPageData struct {
	SourceText string
	CharCount  int
	MinChars   int
	MaxChars   int
	Errors     forms.FieldErrors
	Queue      *queueView
}

// GeneratePage renders the generation form together with the current review
// queue, if a run is in progress.
func (h *Handler) GeneratePage(w http.ResponseWriter, r *http.Request) {
	data := generationPageData{
		MinChars: GenerationMinChars,
		MaxChars: GenerationMaxChars,
		Errors:   forms.FieldErrors{},
	}
	if user, err := h.currentUser(r); err == nil {
		if q, ok := h.Reviews.Get(user.ID); ok {
			data.Queue = newQueueView(q)
		}
	}
	h.render(w, r, http.StatusOK, "generate", "Generuj fiszki", data)
}

// Generate submits the source text. On success both query groups are
// invalidated so the collection and history pages refetch, the form is
// cleared and the user sees how many cards came back.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	sourceText := r.PostFormValue("source_text")
	form := forms.GenerationForm{SourceText: sourceText}

	if errs := forms.Validate(form); len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "generate", "Generuj fiszki", generationPageData{
			SourceText: sourceText,
			CharCount:  utf8.RuneCountInString(sourceText),
			MinChars:   GenerationMinChars,
			MaxChars:   GenerationMaxChars,
			Errors:     errs,
		})
		return
	}

	token, ok := h.token(w, r)
	if !ok {
		return
	}
	user, err := h.currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	result, err := h.API.CreateGeneration(r.Context(), token, sourceText)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			redirectToLogin(w, r)
			return
		}
		h.Log.Warn("generation failed", zap.Error(err))
		h.renderAlert(w, r, http.StatusUnprocessableEntity, "generate", "Generuj fiszki", apiErrorMessage(err), generationPageData{
			SourceText: sourceText,
			CharCount:  utf8.RuneCountInString(sourceText),
			MinChars:   GenerationMinChars,
			MaxChars:   GenerationMaxChars,
			Errors:     forms.FieldErrors{},
		})
		return
	}

	// A new run replaces any previous queue; the old selection dies with it.
	h.Reviews.Put(user.ID, review.NewQueue(result.Request.ID, result.Flashcards))
	h.Cache.InvalidateGroup(cache.GroupFlashcards)
	h.Cache.InvalidateGroup(cache.GroupGenerationRequests)

	h.Sessions.AddToast(w, r, "success",
		"Wygenerowano "+pluralCards(len(result.Flashcards)))
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

// HistoryPage lists past generation requests, newest first, through the
// query cache.
func (h *Handler) HistoryPage(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	value, err := h.Cache.Do("generation-requests", cache.GroupGenerationRequests, func() (any, error) {
		return h.API.ListGenerationRequests(r.Context(), token)
	})
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			redirectToLogin(w, r)
			return
		}
		h.Log.Warn("history fetch failed", zap.Error(err))
		h.renderAlert(w, r, http.StatusOK, "history", "Historia generowania", apiErrorMessage(err), []models.GenerationRequest(nil))
		return
	}

	requests, _ := value.([]models.GenerationRequest)
	h.render(w, r, http.StatusOK, "history", "Historia generowania", requests)
}

// pluralCards renders a card count with Polish plural forms.
func pluralCards(n int) string {
	switch {
	case n == 1:
		return "1 fiszkę"
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return strconv.Itoa(n) + " fiszki"
	default:
		return strconv.Itoa(n) + " fiszek"
	}
}
