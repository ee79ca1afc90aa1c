package presentation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jdgomezv/delivery-dispatch/internal/dispatch"
	"github.com/jdgomezv/delivery-dispatch/internal/domain"
	"github.com/jdgomezv/delivery-dispatch/internal/presentation/helpers"
)

// DispatchHandler is the localhost surface the UI layer talks to: read the
// reconciled queue, issue status changes, poll busy state and pending
// notifications.
type DispatchHandler struct {
	client *dispatch.Client
}

func NewDispatchHandler(client *dispatch.Client) *DispatchHandler {
	return &DispatchHandler{client: client}
}

func (h *DispatchHandler) Register(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
	r.Get("/orders/{id}/busy", h.OrderBusy)
	r.Post("/orders/{id}/status", h.ChangeStatus)
	r.Get("/notifications", h.DrainNotifications)
	r.Get("/health", h.Health)
}

func (h *DispatchHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, h.client.Orders())
}

func (h *DispatchHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	ord, found := h.client.Order(id)
	if !found {
		helpers.HttpError(w, http.StatusNotFound, "order not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ord)
}

func (h *DispatchHandler) OrderBusy(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"busy": h.client.Busy(id)})
}

type statusChangeRequest struct {
	Status domain.Status `json:"status"`
}

func (h *DispatchHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req statusChangeRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if !req.Status.Valid() {
		helpers.HttpError(w, http.StatusBadRequest, "unknown status")
		return
	}

	err := h.client.RequestStatusChange(r.Context(), id, req.Status)
	switch {
	case err == nil:
		helpers.WriteJSON(w, http.StatusAccepted, map[string]any{
			"status":  "accepted",
			"orderId": id,
		})
	case errors.Is(err, dispatch.ErrNotConnected):
		helpers.HttpError(w, http.StatusServiceUnavailable, "not connected to the dispatch stream")
	case errors.Is(err, dispatch.ErrActionInFlight):
		helpers.HttpError(w, http.StatusConflict, "an action is already in flight for this order")
	case errors.Is(err, dispatch.ErrInvalidTransition):
		helpers.HttpError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		helpers.HttpError(w, http.StatusInternalServerError, "failed to publish status change")
	}
}

// DrainNotifications hands out everything queued since the last poll. Each
// notification is surfaced exactly once.
func (h *DispatchHandler) DrainNotifications(w http.ResponseWriter, r *http.Request) {
	out := make([]domain.Notification, 0)
	for {
		select {
		case n := <-h.client.Notifications():
			out = append(out, n)
		default:
			helpers.WriteJSON(w, http.StatusOK, out)
			return
		}
	}
}

func (h *DispatchHandler) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"connected": h.client.Connected()})
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		helpers.HttpError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
