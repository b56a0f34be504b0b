package helper

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Pagination type & defaults
=================================*/

type Pagination struct {
	Page           int   `json:"page"`
	PerPage        int   `json:"per_page"`
	Total          int64 `json:"total"`
	TotalPages     int   `json:"total_pages"`
	HasNext        bool  `json:"has_next"`
	HasPrev        bool  `json:"has_prev"`
	Count          int   `json:"count"`                      // jumlah item di halaman ini
	PerPageOptions []int `json:"per_page_options,omitempty"` // opsi per_page yg disarankan
}

var defaultPerPageOptions = []int{10, 20, 30, 50, 100}

/* ===============================
   Paging resolver (query → page/perPage/offset)
=================================*/

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	SortBy  string
	Order   string // asc|desc
}

// ResolvePaging membaca ?page= & ?per_page= (atau alias ?limit=) dan normalisasi.
// - maxPerPage: batasi per_page maksimum (0 = tanpa batas)
// - allowedSort: whitelist ?sort_by=, fallback ke entry pertama
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int, allowedSort ...string) Paging {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = 1
	}

	// dukung dua nama: per_page (utama) atau limit (alias lama)
	perRaw := strings.TrimSpace(c.Query("per_page"))
	if perRaw == "" {
		perRaw = strings.TrimSpace(c.Query("limit"))
	}
	perPage, _ := strconv.Atoi(perRaw)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}

	p := Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Order:   "desc",
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc") {
		p.Order = "asc"
	}
	if len(allowedSort) > 0 {
		p.SortBy = allowedSort[0]
		want := strings.TrimSpace(c.Query("sort_by"))
		for _, s := range allowedSort {
			if s == want {
				p.SortBy = s
				break
			}
		}
	}
	return p
}

// OrderClause: "<kolom> <order>" untuk gorm Order (kolom sudah di-whitelist)
func (p Paging) OrderClause() string {
	if p.SortBy == "" {
		return ""
	}
	return p.SortBy + " " + p.Order
}

/* ===============================
   Pagination builders
=================================*/

func BuildPagination(total int64, p Paging) *Pagination {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = 20 // default aman
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if totalPages == 0 {
		totalPages = 1
	}
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func lenOf(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len()
	default:
		return 0
	}
}
