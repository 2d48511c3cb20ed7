package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type OrganizationHandler struct {
	Create        *usecase.CreateOrganizationUseCase
	Get           *usecase.GetOrganizationUseCase
	List          *usecase.ListOrganizationsUseCase
	AssignPackage *usecase.AssignCustomPackageUseCase
}

func NewOrganizationHandler(
	create *usecase.CreateOrganizationUseCase,
	get *usecase.GetOrganizationUseCase,
	list *usecase.ListOrganizationsUseCase,
	assign *usecase.AssignCustomPackageUseCase,
) *OrganizationHandler {
	return &OrganizationHandler{Create: create, Get: get, List: list, AssignPackage: assign}
}

func (h *OrganizationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateOrganizationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Create.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *OrganizationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	org, err := h.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.List.Execute(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type AssignPackageRequest struct {
	PackageID string `json:"package_id"`
}

func (h *OrganizationHandler) HandleAssignPackage(w http.ResponseWriter, r *http.Request) {
	var req AssignPackageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	org, err := h.AssignPackage.Execute(r.Context(), chi.URLParam(r, "id"), req.PackageID)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}
