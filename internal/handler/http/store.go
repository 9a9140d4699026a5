package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storelink/storeops-backend-go/internal/domain/store"
	"github.com/storelink/storeops-backend-go/internal/handler/http/response"
)

type StoreHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type storeHandlerImpl struct {
	storeRepo store.StoreRepository
}

func NewStoreHandler(storeRepo store.StoreRepository) StoreHandler {
	return &storeHandlerImpl{storeRepo: storeRepo}
}

// List implements StoreHandler.
func (h *storeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.storeRepo.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]store.StoreResponse, 0, len(stores))
	for _, s := range stores {
		responses = append(responses, store.MapToResponse(s))
	}

	response.Success(w, responses)
}

// Get implements StoreHandler.
func (h *storeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, err := h.storeRepo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, store.MapToResponse(s))
}
