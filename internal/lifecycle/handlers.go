package lifecycle

import (
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/respond"
)

// Handler serves the lifecycle routes of one entity kind. present converts a
// stored document into its response DTO.
type Handler[T any, PT entity[T]] struct {
	service *Service[T, PT]
	present func(*T) any
}

// NewHandler creates a lifecycle handler.
func NewHandler[T any, PT entity[T]](service *Service[T, PT], present func(*T) any) *Handler[T, PT] {
	return &Handler[T, PT]{service: service, present: present}
}

// Register mounts the lifecycle routes under prefix, e.g. "/v1/foods":
//
//	GET  {prefix}
//	GET  {prefix}/deleted
//	GET  {prefix}/{id}
//	POST {prefix}/{id}/delete
//	POST {prefix}/{id}/restore
func (h *Handler[T, PT]) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix, h.HandleList)
	mux.HandleFunc("GET "+prefix+"/deleted", h.HandleListDeleted)
	mux.HandleFunc("GET "+prefix+"/{id}", h.HandleGet)
	mux.HandleFunc("POST "+prefix+"/{id}/delete", h.HandleDelete)
	mux.HandleFunc("POST "+prefix+"/{id}/restore", h.HandleRestore)
}

// HandleList handles GET {prefix}
func (h *Handler[T, PT]) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.GetAll(r.Context())
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, h.presentAll(docs))
}

// HandleListDeleted handles GET {prefix}/deleted
func (h *Handler[T, PT]) HandleListDeleted(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.GetAllDeleted(r.Context())
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, h.presentAll(docs))
}

// HandleGet handles GET {prefix}/{id}
func (h *Handler[T, PT]) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	doc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, h.present(doc))
}

// HandleDelete handles POST {prefix}/{id}/delete
func (h *Handler[T, PT]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	doc, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, h.present(doc))
}

// HandleRestore handles POST {prefix}/{id}/restore
func (h *Handler[T, PT]) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	doc, err := h.service.RestoreByID(r.Context(), id)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, h.present(doc))
}

func (h *Handler[T, PT]) presentAll(docs []T) []any {
	items := make([]any, len(docs))
	for i := range docs {
		items[i] = h.present(&docs[i])
	}
	return items
}
