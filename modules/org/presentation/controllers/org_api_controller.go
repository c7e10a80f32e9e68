package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/services"
	"github.com/orgnest/orgnest/pkg/composables"
)

type OrgAPIController struct {
	units     *services.UnitService
	apiPrefix string
}

func NewOrgAPIController(units *services.UnitService) *OrgAPIController {
	return &OrgAPIController{
		units:     units,
		apiPrefix: "/org/api",
	}
}

func (c *OrgAPIController) Key() string {
	return c.apiPrefix
}

func (c *OrgAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.Use(instrumentEndpoint)

	api.HandleFunc("/units/{idOrCode}", c.GetUnit).Methods(http.MethodGet)
	api.HandleFunc("/units", c.CreateUnit).Methods(http.MethodPost)
	api.HandleFunc("/units/{idOrCode}", c.UpdateUnit).Methods(http.MethodPatch)
	api.HandleFunc("/units/{idOrCode}", c.DeleteUnit).Methods(http.MethodDelete)
}

type unitResponse struct {
	ID         int64  `json:"id"`
	Code       string `json:"code,omitempty"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	ParentPath string `json:"parent_path"`
	VenueType  string `json:"venue_type,omitempty"`
	Location   string `json:"location,omitempty"`
	DefDoc     string `json:"def_doc,omitempty"`
	Website    string `json:"website,omitempty"`
}

type treeNodeResponse struct {
	unitResponse
	Children []treeNodeResponse `json:"children,omitempty"`
}

func toUnitResponse(u *unit.OrgUnit) unitResponse {
	return unitResponse{
		ID:         u.ID,
		Code:       u.Code,
		Name:       u.Name,
		Type:       string(u.Type),
		ParentID:   u.ParentID,
		ParentPath: u.ParentPath,
		VenueType:  u.VenueType,
		Location:   u.Location,
		DefDoc:     u.DefDoc,
		Website:    u.Website,
	}
}

func toTreeResponse(nodes []*services.TreeNode) []treeNodeResponse {
	out := make([]treeNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeNodeResponse{
			unitResponse: toUnitResponse(n.Unit),
			Children:     toTreeResponse(n.Children),
		})
	}
	return out
}

func (c *OrgAPIController) GetUnit(w http.ResponseWriter, r *http.Request) {
	view, err := c.units.ResolveView(r.Context(), unitRefFromPath(mux.Vars(r)["idOrCode"]))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	parents := make([]unitResponse, 0, len(view.Parents))
	for _, p := range view.Parents {
		parents = append(parents, toUnitResponse(p))
	}

	type unitViewResponse struct {
		Unit     unitResponse       `json:"unit"`
		Parents  []unitResponse     `json:"parents"`
		Children []treeNodeResponse `json:"children"`
	}
	writeJSON(w, http.StatusOK, unitViewResponse{
		Unit:     toUnitResponse(view.Unit),
		Parents:  parents,
		Children: toTreeResponse(view.Children),
	})
}

type createUnitRequest struct {
	ParentID  int64  `json:"parent_id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	VenueType string `json:"venue_type"`
	Location  string `json:"location"`
	DefDoc    string `json:"def_doc"`
	Website   string `json:"website"`
}

func (c *OrgAPIController) CreateUnit(w http.ResponseWriter, r *http.Request) {
	officer, ok := requireOfficer(w, r)
	if !ok {
		return
	}

	var req createUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, composables.UseRequestID(r.Context()), "ORG_INVALID_BODY", "malformed JSON body")
		return
	}

	created, err := c.units.Create(r.Context(), services.CreateUnitInput{
		ParentID:  req.ParentID,
		Type:      req.Type,
		Name:      req.Name,
		Code:      req.Code,
		VenueType: req.VenueType,
		Location:  req.Location,
		DefDoc:    req.DefDoc,
		Website:   req.Website,
	}, officer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUnitResponse(created))
}

type updateUnitRequest struct {
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	VenueType *string `json:"venue_type"`
	Location  *string `json:"location"`
	DefDoc    *string `json:"def_doc"`
	Website   *string `json:"website"`
}

func (c *OrgAPIController) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	officer, ok := requireOfficer(w, r)
	if !ok {
		return
	}

	var req updateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, composables.UseRequestID(r.Context()), "ORG_INVALID_BODY", "malformed JSON body")
		return
	}

	updated, err := c.units.Update(r.Context(), unitRefFromPath(mux.Vars(r)["idOrCode"]), services.UpdateUnitInput{
		Name:      req.Name,
		Code:      req.Code,
		VenueType: req.VenueType,
		Location:  req.Location,
		DefDoc:    req.DefDoc,
		Website:   req.Website,
	}, officer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitResponse(updated))
}

func (c *OrgAPIController) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	officer, ok := requireOfficer(w, r)
	if !ok {
		return
	}

	deleted, err := c.units.Delete(r.Context(), unitRefFromPath(mux.Vars(r)["idOrCode"]), officer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitResponse(deleted))
}
