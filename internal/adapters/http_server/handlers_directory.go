package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kezar0001-cpu/Mawjood/internal/app"
	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

// ---- JSON shapes ----

type businessJSON struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	CategoryID     *string  `json:"category_id"`
	CategoryNameAr *string  `json:"category_name_ar,omitempty"`
	Description    *string  `json:"description"`
	City           *string  `json:"city"`
	Address        *string  `json:"address"`
	Phone          *string  `json:"phone"`
	Rating         *float64 `json:"rating"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Features       []string `json:"features"`
	Images         []string `json:"images"`
}

func toBusinessJSON(v domain.BusinessView) businessJSON {
	return businessJSON{
		ID:             v.ID,
		Name:           v.Name,
		CategoryID:     v.CategoryID,
		CategoryNameAr: v.CategoryNameAr,
		Description:    v.Description,
		City:           v.City,
		Address:        v.Address,
		Phone:          v.Phone,
		Rating:         v.Rating,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		Features:       v.Features,
		Images:         v.Images,
	}
}

type businessListJSON struct {
	Items      []businessJSON `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

type categoryJSON struct {
	ID     string  `json:"id"`
	NameAr string  `json:"name_ar"`
	NameEn *string `json:"name_en"`
	Icon   *string `json:"icon"`
}

func toCategoryJSON(c domain.Category) categoryJSON {
	return categoryJSON{ID: c.ID, NameAr: c.NameAr, NameEn: c.NameEn, Icon: c.Icon}
}

type overviewJSON struct {
	Businesses int             `json:"businesses"`
	Categories int             `json:"categories"`
	Cities     int             `json:"cities"`
	ByCity     []cityCountJSON `json:"by_city"`
}

type cityCountJSON struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// ---- overview ----

func (h *Handlers) overview(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	ov, err := h.Dir.Overview(r.Context())
	if err != nil {
		writeDataError(w, err)
		return
	}
	out := overviewJSON{Businesses: ov.Businesses, Categories: ov.Categories, Cities: ov.Cities}
	for _, cc := range ov.ByCity {
		out.ByCity = append(out.ByCity, cityCountJSON{City: cc.City, Count: cc.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- businesses ----

func (h *Handlers) listBusinesses(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	q := domain.BusinessQuery{
		City:       qv.Get("city"),
		CategoryID: qv.Get("category"),
		Search:     qv.Get("search"),
		Page:       page,
	}

	pageOut, err := h.Dir.ListBusinesses(r.Context(), q)
	if err != nil {
		writeDataError(w, err)
		return
	}
	out := businessListJSON{
		Items:      []businessJSON{},
		Total:      pageOut.Total,
		Page:       pageOut.Page,
		TotalPages: pageOut.TotalPages,
	}
	for _, item := range pageOut.Items {
		out.Items = append(out.Items, toBusinessJSON(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBusiness(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	bv, err := h.Dir.GetBusiness(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBusinessJSON(bv))
}

func (h *Handlers) createBusiness(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	var in app.BusinessInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.Dir.CreateBusiness(r.Context(), in)
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBusinessJSON(domain.BusinessView{Business: b}))
}

func (h *Handlers) updateBusiness(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	var in app.BusinessInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.Dir.UpdateBusiness(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBusinessJSON(domain.BusinessView{Business: b}))
}

func (h *Handlers) deleteBusiness(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	if err := h.Dir.DeleteBusiness(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDataError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- categories ----

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	cats, err := h.Dir.ListCategories(r.Context())
	if err != nil {
		writeDataError(w, err)
		return
	}
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getCategory(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	c, err := h.Dir.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(c))
}

func (h *Handlers) createCategory(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	var in app.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Dir.CreateCategory(r.Context(), in)
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(c))
}

func (h *Handlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	var in app.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Dir.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(c))
}

func (h *Handlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.admit(w, r); !ok {
		return
	}

	if err := h.Dir.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDataError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
