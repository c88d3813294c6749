package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawelnowak/fiszki-ai/apiclient"
	"github.com/pawelnowak/fiszki-ai/cache"
	"github.com/pawelnowak/fiszki-ai/forms"
	"github.com/pawelnowak/fiszki-ai/models"
	"github.com/pawelnowak/fiszki-ai/review"
)

type flashcardsPageData struct {
	Page    *models.FlashcardPage
	Params  models.ListParams
	Filters filterLinks
	// Empty distinguishes "no cards at all" (contextual call-to-action) from
	// "no cards matching this filter".
	Empty    bool
	Filtered bool
}

// filterLinks precomputes the hrefs of every filter control. Each one goes
// through WithFilter, so any change lands on page 1.
type filterLinks struct {
	AllStatuses   string
	Active        string
	PendingReview string
	Rejected      string
	AllSources    string
	AIGenerated   string
	Manual        string
	ByCreated     string
	ByUpdated     string
	ByNextReview  string
	OrderAsc      string
	OrderDesc     string
	PrevPage      string
	NextPage      string
}

func listURL(p models.ListParams) string {
	q := p.Values().Encode()
	if q == "" {
		return "/flashcards"
	}
	return "/flashcards?" + q
}

func buildFilterLinks(p models.ListParams) filterLinks {
	return filterLinks{
		AllStatuses:   listURL(p.WithFilter("status", "")),
		Active:        listURL(p.WithFilter("status", string(models.StatusActive))),
		PendingReview: listURL(p.WithFilter("status", string(models.StatusPendingReview))),
		Rejected:      listURL(p.WithFilter("status", string(models.StatusRejected))),
		AllSources:    listURL(p.WithFilter("source", "")),
		AIGenerated:   listURL(p.WithFilter("source", string(models.SourceAIGenerated))),
		Manual:        listURL(p.WithFilter("source", string(models.SourceManual))),
		ByCreated:     listURL(p.WithFilter("sort", models.SortCreatedAt)),
		ByUpdated:     listURL(p.WithFilter("sort", models.SortUpdatedAt)),
		ByNextReview:  listURL(p.WithFilter("sort", models.SortNextReviewAt)),
		OrderAsc:      listURL(p.WithFilter("order", "asc")),
		OrderDesc:     listURL(p.WithFilter("order", "desc")),
		PrevPage:      listURL(p.WithPage(p.Page - 1)),
		NextPage:      listURL(p.WithPage(p.Page + 1)),
	}
}

// FlashcardsPage renders one page of the collection with filters, sorting
// and pagination. Fetches go through the query cache.
func (h *Handler) FlashcardsPage(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	params := models.NewListParams(r.URL.Query())
	value, err := h.Cache.Do(params.CacheKey(), cache.GroupFlashcards, func() (any, error) {
		return h.API.ListFlashcards(r.Context(), token, params)
	})
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			redirectToLogin(w, r)
			return
		}
		h.Log.Warn("flashcards fetch failed", zap.Error(err))
		h.renderAlert(w, r, http.StatusOK, "flashcards", "Moje fiszki", apiErrorMessage(err), flashcardsPageData{
			Params: params, Filters: buildFilterLinks(params), Empty: true,
		})
		return
	}

	page, _ := value.(*models.FlashcardPage)
	filtered := params.Status != "" || params.Source != ""
	h.render(w, r, http.StatusOK, "flashcards", "Moje fiszki", flashcardsPageData{
		Page:     page,
		Params:   params,
		Filters:  buildFilterLinks(params),
		Empty:    page == nil || len(page.Data) == 0,
		Filtered: filtered,
	})
}

// queueView is the review queue shaped for templates.
type queueView struct {
	Cards         []queueCardView
	SelectedCount int
	Total         int
}

type queueCardView struct {
	models.Flashcard
	Selected bool
}

func newQueueView(q *review.Queue) *queueView {
	cards := q.Cards()
	view := &queueView{
		Cards:         make([]queueCardView, len(cards)),
		SelectedCount: q.SelectedCount(),
		Total:         q.Len(),
	}
	for i, card := range cards {
		view.Cards[i] = queueCardView{Flashcard: card, Selected: q.IsSelected(card.ID)}
	}
	return view
}

// queueAction loads the caller's queue and the card id from the form.
func (h *Handler) queueAction(w http.ResponseWriter, r *http.Request) (string, *review.Queue, uuid.UUID, bool) {
	token, ok := h.token(w, r)
	if !ok {
		return "", nil, uuid.Nil, false
	}
	user, err := h.currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return "", nil, uuid.Nil, false
	}
	queue, ok := h.Reviews.Get(user.ID)
	if !ok {
		h.Sessions.AddToast(w, r, "error", "Brak fiszek do recenzji")
		http.Redirect(w, r, "/generate", http.StatusSeeOther)
		return "", nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PostFormValue("flashcard_id"))
	if err != nil {
		id = uuid.Nil
	}
	return token, queue, id, true
}

// ApproveFlashcard approves one candidate card. The card leaves the local
// queue (and the selection) only after the backend confirms.
func (h *Handler) ApproveFlashcard(w http.ResponseWriter, r *http.Request) {
	token, queue, id, ok := h.queueAction(w, r)
	if !ok {
		return
	}

	if err := h.API.ApproveFlashcard(r.Context(), token, id); err != nil {
		h.reviewActionFailed(w, r, "approve", err)
		return
	}
	queue.Remove(id)
	h.invalidateReviewCaches()
	h.Sessions.AddToast(w, r, "success", "Fiszka zatwierdzona")
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

// RejectFlashcard rejects one candidate card.
func (h *Handler) RejectFlashcard(w http.ResponseWriter, r *http.Request) {
	token, queue, id, ok := h.queueAction(w, r)
	if !ok {
		return
	}

	if err := h.API.RejectFlashcard(r.Context(), token, id); err != nil {
		h.reviewActionFailed(w, r, "reject", err)
		return
	}
	queue.Remove(id)
	h.invalidateReviewCaches()
	h.Sessions.AddToast(w, r, "success", "Fiszka odrzucona")
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

// ToggleSelect flips one card's batch-approve selection.
func (h *Handler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	_, queue, id, ok := h.queueAction(w, r)
	if !ok {
		return
	}
	queue.ToggleSelect(id)
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

// SelectAll selects every remaining card, or clears the selection when
// everything is already selected.
func (h *Handler) SelectAll(w http.ResponseWriter, r *http.Request) {
	_, queue, _, ok := h.queueAction(w, r)
	if !ok {
		return
	}
	if queue.SelectedCount() == queue.Len() {
		queue.ClearSelection()
	} else {
		queue.SelectAll()
	}
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

// BatchApprove approves the whole selection in one backend call, then
// removes exactly those cards locally and clears the selection.
func (h *Handler) BatchApprove(w http.ResponseWriter, r *http.Request) {
	token, queue, _, ok := h.queueAction(w, r)
	if !ok {
		return
	}

	ids := queue.SelectedIDs()
	if len(ids) == 0 {
		h.Sessions.AddToast(w, r, "error", "Nie zaznaczono żadnych fiszek")
		http.Redirect(w, r, "/generate", http.StatusSeeOther)
		return
	}

	result, err := h.API.BatchApprove(r.Context(), token, ids)
	if err != nil {
		h.reviewActionFailed(w, r, "batch-approve", err)
		return
	}
	queue.RemoveSelected()
	h.invalidateReviewCaches()
	h.Sessions.AddToast(w, r, "success", "Zatwierdzono "+pluralCards(result.ApprovedCount))
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

// EditFlashcard saves an in-place edit from the modal and updates the local
// queue copy so the card re-renders with the new content.
func (h *Handler) EditFlashcard(w http.ResponseWriter, r *http.Request) {
	token, queue, id, ok := h.queueAction(w, r)
	if !ok {
		return
	}

	form := forms.FlashcardEditForm{
		Front: r.PostFormValue("front"),
		Back:  r.PostFormValue("back"),
	}
	if errs := forms.Validate(form); len(errs) > 0 {
		// Front first, then back, so repeated submissions surface the same
		// message.
		msg := errs.Get("Front")
		if msg == "" {
			msg = errs.Get("Back")
		}
		if msg == "" {
			msg = forms.MsgGenericInvalid
		}
		h.Sessions.AddToast(w, r, "error", msg)
		http.Redirect(w, r, "/generate", http.StatusSeeOther)
		return
	}

	card, err := h.API.UpdateFlashcard(r.Context(), token, id, apiclient.FlashcardUpdate{
		Front: &form.Front,
		Back:  &form.Back,
	})
	if err != nil {
		h.reviewActionFailed(w, r, "edit", err)
		return
	}
	queue.Update(*card)
	h.invalidateReviewCaches()
	h.Sessions.AddToast(w, r, "success", "Fiszka zaktualizowana")
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

func (h *Handler) reviewActionFailed(w http.ResponseWriter, r *http.Request, action string, err error) {
	if apiclient.IsUnauthorized(err) {
		redirectToLogin(w, r)
		return
	}
	h.Log.Warn("review action failed", zap.String("action", action), zap.Error(err))
	h.Sessions.AddToast(w, r, "error", apiErrorMessage(err))
	http.Redirect(w, r, "/generate", http.StatusSeeOther)
}

func (h *Handler) invalidateReviewCaches() {
	h.Cache.InvalidateGroup(cache.GroupFlashcards)
	h.Cache.InvalidateGroup(cache.GroupGenerationRequests)
}
