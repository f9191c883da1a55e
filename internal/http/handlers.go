package http

import (
	"errors"
	"net/http"
	"strings"

	"bollette/internal/core"
	"bollette/internal/log"
	"bollette/internal/services"
	"bollette/internal/snapshot"
)

// billEnvelope wraps a single bill in responses.
type billEnvelope struct {
	Bill snapshot.Record `json:"bill"`
}

// billListEnvelope wraps the filtered, sorted bill list in responses.
type billListEnvelope struct {
	Bills  []snapshot.Record `json:"bills"`
	Filter string            `json:"filter"`
	Sort   string            `json:"sort"`
}

// totalsEnvelope wraps per-status totals in responses.
type totalsEnvelope struct {
	Totals map[string]string `json:"totals"`
}

// saveFailedEnvelope reports a rejected save together with the state the
// collection now holds, so clients can render what the user entered.
type saveFailedEnvelope struct {
	Error string           `json:"error"`
	Bill  *snapshot.Record `json:"bill,omitempty"`
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBills(w, r)
	case http.MethodPost:
		s.handleCreateBill(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	params, err := ParseViewParams(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if params.Filter != nil {
		s.bills.SetFilter(*params.Filter)
	}
	if params.Sort != nil {
		s.bills.SetSort(*params.Sort)
	}

	view := s.bills.DisplayBills()
	records := make([]snapshot.Record, 0, len(view))
	for _, b := range view {
		records = append(records, snapshot.FromBill(b))
	}

	NewJSONResponse().Body(billListEnvelope{
		Bills:  records,
		Filter: string(s.bills.Filter()),
		Sort:   string(s.bills.Sort()),
	}).Write(w)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var payload billCreatePayload
	if err := DecodeJSON(r, &payload); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Create bill decode error", "error", err)
		BadRequestError("invalid request body").Write(w)
		return
	}

	bill := core.Bill{
		Category:      sanitizeInput(payload.Category),
		DisplayName:   sanitizeInput(payload.DisplayName),
		PaymentMethod: sanitizeInput(payload.PaymentMethod),
	}

	status, err := core.ParseStatus(payload.Status)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	bill.Status = status

	if payload.Amount != nil {
		amount, err := parseAmountPayload(payload.Amount)
		if err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		bill.Amount = amount
	}

	ctx := r.Context()
	structured := log.NewStructuredLogger(log.FromContext(ctx))

	created, err := s.bills.CreateBill(ctx, bill)
	if err != nil {
		if errors.Is(err, snapshot.ErrSaveFailed) {
			// The collection kept the bill, only the save was rejected.
			structured.LogError(ctx, "Bill save rejected", err,
				log.ComponentBill, log.OpSave,
				log.NewFields().WithBill(created.ID, created.Category, string(created.Status), core.FormatAmount(created.Amount)))
			s.invalidateTotals()
			rec := snapshot.FromBill(created)
			NewJSONResponse().
				Status(http.StatusBadGateway).
				Body(saveFailedEnvelope{Error: err.Error(), Bill: &rec}).
				Write(w)
			return
		}
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	structured.LogBillCreated(ctx, created.ID, created.Category, string(created.Status), core.FormatAmount(created.Amount))
	s.invalidateTotals()
	NewJSONResponse().
		Status(http.StatusCreated).
		Body(billEnvelope{Bill: snapshot.FromBill(created)}).
		Write(w)
}

func (s *Server) handleBillByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/bills/")
	if id == "" || strings.Contains(id, "/") {
		NotFoundError("no such bill").Write(w)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		s.handleUpdateBill(w, r, id)
	case http.MethodDelete:
		s.handleDeleteBill(w, r, id)
	default:
		MethodNotAllowedError("PATCH, DELETE").Write(w)
	}
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.bills.Bill(id); !ok {
		NotFoundError("no such bill").Write(w)
		return
	}

	var payload billPatchPayload
	if err := DecodeJSON(r, &payload); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Update bill decode error", "error", err, "bill_id", id)
		BadRequestError("invalid request body").Write(w)
		return
	}

	var patch services.UpdatePatch
	if payload.Amount != nil {
		value, err := parseAmountValue(payload.Amount)
		if err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		patch.Amount = &value
	}
	if payload.Status != nil {
		status, err := core.ParseStatus(*payload.Status)
		if err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		patch.Status = &status
	}

	err := s.bills.UpdateBill(r.Context(), id, patch)
	updated, _ := s.bills.Bill(id)
	if err != nil {
		if errors.Is(err, snapshot.ErrSaveFailed) {
			s.invalidateTotals()
			rec := snapshot.FromBill(updated)
			NewJSONResponse().
				Status(http.StatusBadGateway).
				Body(saveFailedEnvelope{Error: err.Error(), Bill: &rec}).
				Write(w)
			return
		}
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	s.invalidateTotals()
	NewJSONResponse().Body(billEnvelope{Bill: snapshot.FromBill(updated)}).Write(w)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.bills.Bill(id); !ok {
		NotFoundError("no such bill").Write(w)
		return
	}

	if err := s.bills.DeleteBill(r.Context(), id); err != nil {
		s.invalidateTotals()
		if errors.Is(err, snapshot.ErrSaveFailed) {
			NewJSONResponse().
				Status(http.StatusBadGateway).
				Body(saveFailedEnvelope{Error: err.Error()}).
				Write(w)
			return
		}
		InternalServerError(err.Error()).Write(w)
		return
	}

	s.invalidateTotals()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	totals, found := s.totalsCache.Get(totalsCacheKey)
	if !found {
		totals = s.bills.TotalsByStatus()
		s.totalsCache.Set(totalsCacheKey, totals)
		log.FromContext(r.Context()).DebugContext(r.Context(), "Totals cached", "statuses", len(totals))
	}

	NewJSONResponse().Body(totalsEnvelope{Totals: formatTotals(totals)}).Write(w)
}
