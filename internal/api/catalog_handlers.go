package api

import (
	"fmt"
	"net/http"

	"github.com/example/litebay/internal/catalog"
	"github.com/example/litebay/internal/domain/product"
)

// CategoryResponse is a category with the number of catalog products filed under it
type CategoryResponse struct {
	catalog.Category
	ProductCount int `json:"productCount"`
}

// GetCategories lists the categories offered by the product filter
func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int)
	for _, p := range h.catalog.Products() {
		counts[p.Category]++
	}

	categories := h.catalog.Categories()
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		// Products are filed by category name
		out = append(out, CategoryResponse{Category: c, ProductCount: counts[c.Name]})
	}
	respondJSON(w, http.StatusOK, out)
}

// News Handlers

type NewsResponse struct {
	Items      []catalog.News `json:"items"`
	Categories []string       `json:"categories"`
}

func (h *Handlers) GetNews(w http.ResponseWriter, r *http.Request) {
	news := h.catalog.News()
	respondJSON(w, http.StatusOK, NewsResponse{
		Items:      catalog.FilterNews(news, r.URL.Query().Get("category")),
		Categories: catalog.NewsCategories(news),
	})
}

type NewsArticleResponse struct {
	Article catalog.News   `json:"article"`
	Related []catalog.News `json:"related"`
}

func (h *Handlers) GetNewsArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	news := h.catalog.News()
	article, ok := catalog.NewsByID(news, id)
	if !ok {
		respondErr(w, r, fmt.Errorf("news %d: %w", id, errNotFound))
		return
	}
	respondJSON(w, http.StatusOK, NewsArticleResponse{
		Article: article,
		Related: catalog.RelatedNews(news, article),
	})
}

// Admin Product Handlers

// ListStoredProducts returns the repository copy of the catalog
func (h *Handlers) ListStoredProducts(w http.ResponseWriter, r *http.Request) {
	products := h.products.GetAll(r.Context())
	if products == nil {
		products = []product.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// CreateProduct stores a product, assigning an id when none is given
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := decodeJSON(r, &p); err != nil {
		respondErr(w, r, err)
		return
	}

	created, err := h.products.Add(r.Context(), p)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	var patch product.Patch
	if err := decodeJSON(r, &patch); err != nil {
		respondErr(w, r, err)
		return
	}

	updated, found, err := h.products.Update(r.Context(), id, patch)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if !found {
		respondErr(w, r, fmt.Errorf("product %d: %w", id, errNotFound))
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	found, err := h.products.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if !found {
		respondErr(w, r, fmt.Errorf("product %d: %w", id, errNotFound))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
