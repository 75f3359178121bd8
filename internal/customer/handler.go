package customer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/auth"
	"github.com/autowerk/garage-management/internal/transport"
	"github.com/autowerk/garage-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, garageID int64, dto CreateCustomerDTO) (*Customer, error)
	GetByID(ctx context.Context, garageID, id int64) (*Customer, error)
	List(ctx context.Context, garageID int64, limit, offset int) ([]*Customer, error)
	Search(ctx context.Context, garageID int64, query string) ([]*Customer, error)
	Update(ctx context.Context, garageID, id int64, dto UpdateCustomerDTO) (*Customer, error)
	Delete(ctx context.Context, garageID, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateCustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), sess.GarageID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if query := r.URL.Query().Get("q"); query != "" {
		customers, err := h.Service.Search(r.Context(), sess.GarageID, query)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, customers)
		return
	}

	limit, offset := h.Pagination(r)
	customers, err := h.Service.List(r.Context(), sess.GarageID, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, customers)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	c, err := h.Service.GetByID(r.Context(), sess.GarageID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var dto UpdateCustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(r.Context(), sess.GarageID, id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := h.Service.Delete(r.Context(), sess.GarageID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	if _, ok := err.(ValidationError); ok {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
