package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/carddex/internal/cache"
	"github.com/fortuna/carddex/internal/catalog"
	"github.com/fortuna/carddex/internal/checklist"
	"github.com/fortuna/carddex/internal/ingest/tcdb"
	"github.com/fortuna/carddex/internal/publisher"
	"github.com/fortuna/carddex/internal/reconcile"
	"github.com/fortuna/carddex/internal/store"
	"github.com/fortuna/carddex/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db          *store.Database
	setRepo     *repository.SetRepository
	sectionRepo *repository.SectionRepository
	cardRepo    *repository.CardRepository
	importer    *catalog.Importer
	reconciler  *reconcile.Reconciler
	cache       *cache.RedisCache
	pub         *publisher.RedisStreamPublisher
}

// NewHandler creates a new handler. cache and pub may be nil.
func NewHandler(db *store.Database, importer *catalog.Importer, c *cache.RedisCache, pub *publisher.RedisStreamPublisher) *Handler {
	return &Handler{
		db:          db,
		setRepo:     repository.NewSetRepository(db),
		sectionRepo: repository.NewSectionRepository(db),
		cardRepo:    repository.NewCardRepository(db),
		importer:    importer,
		reconciler:  reconcile.NewReconciler(db, nil),
		cache:       c,
		pub:         pub,
	}
}

// publishQty emits a collection-stream event for a quantity change. Best
// effort; API responses never depend on it.
func (h *Handler) publishQty(r *http.Request, card *store.CatalogCard) {
	if h.pub == nil || card == nil {
		return
	}
	event := publisher.QtyEvent{
		SetID:      card.SetID,
		CardID:     card.CardID,
		CardNumber: card.CardNumber,
		Qty:        card.Qty,
	}
	if err := h.pub.PublishQtyEvent(r.Context(), event); err != nil {
		log.Printf("[rest] failed to publish qty event for card %d: %v", card.CardID, err)
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "carddex",
		"version": "1.0.0",
	})
}

type parseRequest struct {
	Text string `json:"text"`
}

// decodeChecklistBody decodes a {"text": ...} body, enforcing the input
// ceiling before the text reaches the parser.
func decodeChecklistBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, checklist.MaxChecklistBytes+4096)

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Checklist exceeds %d bytes", checklist.MaxChecklistBytes), nil)
			return "", false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return "", false
	}

	if len(req.Text) > checklist.MaxChecklistBytes {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Checklist exceeds %d bytes", checklist.MaxChecklistBytes), nil)
		return "", false
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Missing 'text' field", nil)
		return "", false
	}

	return req.Text, true
}

// ParseChecklist parses checklist text without persisting anything
func (h *Handler) ParseChecklist(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeChecklistBody(w, r)
	if !ok {
		return
	}

	result := checklist.ParseChecklist(text)
	respondJSON(w, http.StatusOK, result)
}

// GetSets returns all sets
func (h *Handler) GetSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.setRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sets", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sets":  sets,
		"count": len(sets),
	})
}

type createSetRequest struct {
	Name              string `json:"name"`
	Sport             string `json:"sport"`
	Year              int    `json:"year"`
	Publisher         string `json:"publisher"`
	DeclaredCardCount int    `json:"declared_card_count"`
}

// CreateSet registers a new manual set
func (h *Handler) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing 'name' field", nil)
		return
	}

	setID, err := h.importer.CreateSet(r.Context(), req.Name, req.Sport, store.SourceManual, checklist.Metadata{
		Year:              req.Year,
		Publisher:         req.Publisher,
		DeclaredCardCount: req.DeclaredCardCount,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create set", err)
		return
	}

	set, err := h.setRepo.GetByID(r.Context(), setID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch created set", err)
		return
	}

	respondJSON(w, http.StatusCreated, set)
}

// GetSet returns one set with its sections. A cached parse summary from the
// last import is attached when available.
func (h *Handler) GetSet(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	set, err := h.setRepo.GetByID(r.Context(), setID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Set not found", err)
		return
	}

	sections, err := h.sectionRepo.ListBySet(r.Context(), setID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sections", err)
		return
	}

	response := map[string]interface{}{
		"set":      set,
		"sections": sections,
	}

	if h.cache != nil {
		if summary, found, err := h.cache.GetParseSummary(r.Context(), setID); err == nil && found {
			response["last_parse_summary"] = summary
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// DeleteSet removes a set and everything under it
func (h *Handler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	if err := h.setRepo.Delete(r.Context(), setID); err != nil {
		respondError(w, http.StatusNotFound, "Set not found", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Set deleted",
		"set_id":  setID,
	})
}

// ImportChecklist parses checklist text and writes it into an existing set
func (h *Handler) ImportChecklist(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	text, ok := decodeChecklistBody(w, r)
	if !ok {
		return
	}

	stats, result, err := h.importer.ImportText(r.Context(), setID, text)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Import failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":                  stats,
		"summary":                result.Summary,
		"validation_errors":      result.ValidationErrors,
		"duplicate_card_numbers": result.DuplicateCardNumbers,
	})
}

// GetSetCards returns the cards of a set. ?owned=true restricts to owned
// copies, ?review=true to rows flagged for manual review.
func (h *Handler) GetSetCards(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	var (
		cards []*store.CatalogCard
		err   error
	)
	switch {
	case r.URL.Query().Get("owned") == "true":
		cards, err = h.cardRepo.ListOwned(r.Context(), setID)
	case r.URL.Query().Get("review") == "true":
		cards, err = h.cardRepo.ListNeedingReview(r.Context(), setID)
	default:
		cards, err = h.cardRepo.ListBySet(r.Context(), setID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch cards", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cards": cards,
		"count": len(cards),
	})
}

type addCardRequest struct {
	CardNumber string `json:"card_number"`
	Player     string `json:"player"`
	Team       string `json:"team"`
	Section    string `json:"section"`
	Parallel   string `json:"parallel"`
	Qty        int    `json:"qty"`
}

// AddCard adds one card to a set, bumping qty when the card already exists
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	var req addCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CardNumber == "" {
		respondError(w, http.StatusBadRequest, "Missing 'card_number' field", nil)
		return
	}
	if req.Section == "" {
		req.Section = "Base"
	}
	if req.Qty <= 0 {
		req.Qty = 1
	}

	card := &store.CatalogCard{
		SetID:      setID,
		CardNumber: req.CardNumber,
		Player:     req.Player,
		Section:    req.Section,
		Parallel:   req.Parallel,
		Qty:        req.Qty,
		Confidence: checklist.ConfidenceFull,
	}
	if req.Team != "" {
		card.Team.String = req.Team
		card.Team.Valid = true
	}

	cardID, err := h.cardRepo.AddWithQty(r.Context(), card)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to add card", err)
		return
	}

	stored, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch card", err)
		return
	}

	h.publishQty(r, stored)
	respondJSON(w, http.StatusCreated, stored)
}

type bulkAddRequest struct {
	Cards []addCardRequest `json:"cards"`
}

// AddCards adds a batch of cards to a set in one call
func (h *Handler) AddCards(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	var req bulkAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Cards) == 0 {
		respondError(w, http.StatusBadRequest, "No cards provided", nil)
		return
	}

	added := 0
	for _, c := range req.Cards {
		if c.CardNumber == "" {
			continue
		}
		if c.Section == "" {
			c.Section = "Base"
		}
		if c.Qty <= 0 {
			c.Qty = 1
		}

		card := &store.CatalogCard{
			SetID:      setID,
			CardNumber: c.CardNumber,
			Player:     c.Player,
			Section:    c.Section,
			Parallel:   c.Parallel,
			Qty:        c.Qty,
			Confidence: checklist.ConfidenceFull,
		}
		if c.Team != "" {
			card.Team.String = c.Team
			card.Team.Valid = true
		}

		if _, err := h.cardRepo.AddWithQty(r.Context(), card); err != nil {
			respondError(w, http.StatusInternalServerError,
				fmt.Sprintf("Failed to add card %q", c.CardNumber), err)
			return
		}
		added++
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"set_id": setID,
		"added":  added,
	})
}

type qtyUpdate struct {
	CardID int `json:"card_id"`
	Qty    int `json:"qty"`
}

type bulkQtyRequest struct {
	Updates []qtyUpdate `json:"updates"`
}

// BulkUpdateQty sets owned counts on several cards in one call
func (h *Handler) BulkUpdateQty(w http.ResponseWriter, r *http.Request) {
	var req bulkQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Updates) == 0 {
		respondError(w, http.StatusBadRequest, "No updates provided", nil)
		return
	}

	updated := 0
	var failed []int
	for _, u := range req.Updates {
		if u.Qty < 0 {
			failed = append(failed, u.CardID)
			continue
		}
		if err := h.cardRepo.UpdateQty(r.Context(), u.CardID, u.Qty); err != nil {
			failed = append(failed, u.CardID)
			continue
		}
		updated++
	}

	response := map[string]interface{}{"updated": updated}
	if len(failed) > 0 {
		response["failed_card_ids"] = failed
	}

	respondJSON(w, http.StatusOK, response)
}

// GetCard returns one card by ID
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathInt(w, r, "cardID")
	if !ok {
		return
	}

	card, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Card not found", err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}

type updateQtyRequest struct {
	Qty int `json:"qty"`
}

// UpdateCardQty sets the owned count of one card
func (h *Handler) UpdateCardQty(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathInt(w, r, "cardID")
	if !ok {
		return
	}

	var req updateQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Qty < 0 {
		respondError(w, http.StatusBadRequest, "Qty must not be negative", nil)
		return
	}

	if err := h.cardRepo.UpdateQty(r.Context(), cardID, req.Qty); err != nil {
		respondError(w, http.StatusNotFound, "Card not found", err)
		return
	}

	if card, err := h.cardRepo.GetByID(r.Context(), cardID); err == nil {
		h.publishQty(r, card)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"card_id": cardID,
		"qty":     req.Qty,
	})
}

// DeleteCard removes one card
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathInt(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.cardRepo.Delete(r.Context(), cardID); err != nil {
		respondError(w, http.StatusNotFound, "Card not found", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Card deleted",
		"card_id": cardID,
	})
}

type reconcileRequest struct {
	HTML  string           `json:"html,omitempty"`
	Cards []tcdb.OwnedCard `json:"cards,omitempty"`
}

// ReconcileCollection applies owned quantities from a scraped collection to
// a set's cards. The body carries either pre-parsed rows or the raw HTML of
// a collection page.
func (h *Handler) ReconcileCollection(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := req.Cards
	if req.HTML != "" {
		parsed, err := tcdb.ParseCollectionCards(req.HTML)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Failed to parse collection HTML", err)
			return
		}
		rows = append(rows, parsed...)
	}
	if len(rows) == 0 {
		respondError(w, http.StatusBadRequest, "No collection rows provided", nil)
		return
	}

	report, err := h.reconciler.ApplyOwnership(r.Context(), setID, rows)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Reconciliation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// ExportSetCSV streams a set's owned cards as CSV. ?all=true exports every
// card regardless of qty.
func (h *Handler) ExportSetCSV(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathInt(w, r, "setID")
	if !ok {
		return
	}

	set, err := h.setRepo.GetByID(r.Context(), setID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Set not found", err)
		return
	}

	var cards []*store.CatalogCard
	if r.URL.Query().Get("all") == "true" {
		cards, err = h.cardRepo.ListBySet(r.Context(), setID)
	} else {
		cards, err = h.cardRepo.ListOwned(r.Context(), setID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch cards", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", set.Name+".csv"))

	if err := catalog.WriteCSV(w, cards); err != nil {
		log.Printf("[rest] csv export for set %d failed: %v", setID, err)
	}
}

// pathInt parses an integer path variable, responding 400 on failure
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name), err)
		return 0, false
	}
	return value, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
