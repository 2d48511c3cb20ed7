package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type PackageHandler struct {
	Create *usecase.CreatePackageUseCase
	Get    *usecase.GetPackageUseCase
	List   *usecase.ListPackagesUseCase
}

func NewPackageHandler(create *usecase.CreatePackageUseCase, get *usecase.GetPackageUseCase, list *usecase.ListPackagesUseCase) *PackageHandler {
	return &PackageHandler{Create: create, Get: get, List: list}
}

func (h *PackageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreatePackageInput
	if !decodeJSON(w, r, &input) {
		return
	}

	pkg, err := h.Create.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pkg)
}

func (h *PackageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// HandleList returns only active packages unless ?all=true.
func (h *PackageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	pkgs, err := h.List.Execute(r.Context(), activeOnly)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": pkgs})
}
