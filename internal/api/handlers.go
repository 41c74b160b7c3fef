package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/example/litebay/internal/catalog"
	"github.com/example/litebay/internal/checkout"
	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/domain/visit"
	"github.com/example/litebay/internal/domain/wishlist"
	"github.com/example/litebay/internal/logger"
)

// Services are the stores the storefront handlers read and mutate
type Services struct {
	Catalog  *catalog.Catalog
	Products *product.Repository
	Wishlist *wishlist.Repository
	Orders   *order.Repository
	Visits   *visit.Counter
	Cart     *cart.Store
	Checkout *checkout.Service
	PageSize int
}

type Handlers struct {
	catalog  *catalog.Catalog
	products *product.Repository
	wishlist *wishlist.Repository
	orders   *order.Repository
	visits   *visit.Counter
	cart     *cart.Store
	checkout *checkout.Service
	pageSize int
}

func NewHandlers(s Services) *Handlers {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &Handlers{
		catalog:  s.Catalog,
		products: s.Products,
		wishlist: s.Wishlist,
		orders:   s.Orders,
		visits:   s.Visits,
		cart:     s.Cart,
		checkout: s.Checkout,
		pageSize: pageSize,
	}
}

// Home Handlers

type HomeResponse struct {
	catalog.Home
	VisitCount int `json:"visitCount"`
}

// GetHome counts a visit and returns the landing page sections
func (h *Handlers) GetHome(w http.ResponseWriter, r *http.Request) {
	count, err := h.visits.Increment(r.Context())
	if err != nil {
		// The page still renders with the last known count
		log := logger.Component("api")
		log.Warn().Err(err).Msg("failed to count visit")
		count = h.visits.Get(r.Context())
	}

	respondJSON(w, http.StatusOK, HomeResponse{
		Home:       catalog.BuildHome(h.catalog.Products(), h.catalog.News()),
		VisitCount: count,
	})
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	filter, page := parseListingQuery(r)
	respondJSON(w, http.StatusOK, catalog.Query(h.catalog.Products(), filter, page, h.pageSize))
}

type ProductResponse struct {
	product.Product
	Images          []string `json:"images"`
	DiscountPercent int      `json:"discountPercent"`
	InWishlist      bool     `json:"inWishlist"`
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	p, ok := h.catalog.Product(id)
	if !ok {
		respondErr(w, r, fmt.Errorf("product %d: %w", id, errNotFound))
		return
	}

	respondJSON(w, http.StatusOK, ProductResponse{
		Product:         p,
		Images:          p.Images(),
		DiscountPercent: p.DiscountPercent(),
		InWishlist:      h.wishlist.IsInWishlist(r.Context(), id),
	})
}

func parseListingQuery(r *http.Request) (catalog.Filter, int) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		MinPrice: catalog.ParsePrice(q.Get("minPrice")),
		MaxPrice: catalog.ParsePrice(q.Get("maxPrice")),
		Featured: parseFlag(q.Get("featured")),
		New:      parseFlag(q.Get("new")),
		Promo:    parseFlag(q.Get("promo")),
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	return filter, page
}

func parseFlag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// Cart Handlers

type CartResponse struct {
	Items      []cart.Item      `json:"items"`
	TotalItems int              `json:"totalItems"`
	Summary    checkout.Summary `json:"summary"`
}

func (h *Handlers) cartResponse() CartResponse {
	items := h.cart.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return CartResponse{
		Items:      items,
		TotalItems: h.cart.TotalItems(),
		Summary:    h.checkout.Summary(),
	}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if req.ProductID <= 0 {
		respondErr(w, r, cart.ErrInvalidProduct)
		return
	}

	p, ok := h.lookupProduct(r, req.ProductID)
	if !ok {
		respondErr(w, r, fmt.Errorf("product %d: %w", req.ProductID, errNotFound))
		return
	}
	if err := h.cart.AddItem(r.Context(), p, req.Quantity); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// lookupProduct prefers the displayed catalog and falls back to the stored copy
func (h *Handlers) lookupProduct(r *http.Request, id int64) (product.Product, bool) {
	if p, ok := h.catalog.Product(id); ok {
		return p, true
	}
	return h.products.GetByID(r.Context(), id)
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a line quantity; zero or less removes the line
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	var req UpdateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.cart.RemoveItem(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// Wishlist Handlers

type WishlistResponse struct {
	IDs      []int64           `json:"ids"`
	Products []product.Product `json:"products"`
}

func (h *Handlers) wishlistResponse(r *http.Request) WishlistResponse {
	ids := h.wishlist.GetAll(r.Context())
	if ids == nil {
		ids = []int64{}
	}
	return WishlistResponse{
		IDs:      ids,
		Products: catalog.ByIDs(h.catalog.Products(), ids),
	}
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.wishlistResponse(r))
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.wishlist.Add(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.wishlistResponse(r))
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.wishlist.Remove(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.wishlistResponse(r))
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var info checkout.ShippingInfo
	if err := decodeJSON(r, &info); err != nil {
		respondErr(w, r, err)
		return
	}

	placed, err := h.checkout.PlaceOrder(r.Context(), info)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, placed)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.GetAll(r.Context())
	if orders == nil {
		orders = []order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	o, ok := h.orders.GetByID(r.Context(), id)
	if !ok {
		respondErr(w, r, fmt.Errorf("order %d: %w", id, errNotFound))
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Contact Handlers

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in checkout.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		respondErr(w, r, err)
		return
	}

	c, err := h.checkout.SubmitContact(r.Context(), in)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}
