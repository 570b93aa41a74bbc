// Package api exposes the catalog service over HTTP.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/thegoodstr/storefront/pkg/catalog"
)

// Handler handles HTTP requests for the storefront catalog
type Handler struct {
	service catalog.Service
}

// NewHandler creates a new catalog handler
func NewHandler(service catalog.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for the catalog
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/products", h.CreateProduct)
	r.Get("/products", h.ListProducts)
	r.Get("/products/upload", h.GetAssetUploadLink)
	r.Get("/products/{id}", h.RetrieveProduct)
	r.Get("/products/{id}/assets", h.GetAssetDownloadLink)
	r.Get("/products/{id}/downloads", h.GetProductDownloads)
	r.Post("/subscribe", h.Subscribe)

	return r
}

// CreateProductRequest is the request body for creating a product.
// CoverImage carries the image bytes, base64-encoded (an optional
// data-URL prefix is accepted).
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	Price       float64  `json:"price"`
	AssetKeys   []string `json:"assetKeys,omitempty"`
}

// ProductResponse is the response body for a product
type ProductResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Images      []ImageSource `json:"images"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ImageSource is one resolvable image URL
type ImageSource struct {
	Src string `json:"src"`
}

// SubscribeRequest is the request body for recording a subscription
type SubscribeRequest struct {
	Email string `json:"email"`
}

// ErrorResponse is the response body for a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateProduct creates a new product; responds 204 with no body
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, &catalog.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	_, err := h.service.CreateProduct(r.Context(), catalog.CreateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CoverImage:  decodeCoverImage(req.CoverImage),
		AssetKeys:   req.AssetKeys,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts returns every product with a resolvable cover image URL
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		pr, err := h.productResponse(r, product)
		if err != nil {
			renderError(w, r, err)
			return
		}
		resp = append(resp, pr)
	}

	render.JSON(w, r, resp)
}

// RetrieveProduct returns one product by id
func (h *Handler) RetrieveProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp, err := h.productResponse(r, product)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, resp)
}

// GetAssetUploadLink returns a fresh object key and a time-boxed upload
// URL for it
func (h *Handler) GetAssetUploadLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.CreateAssetUploadLink(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, link)
}

// GetAssetDownloadLink returns a time-boxed download URL for the
// product's asset
func (h *Handler) GetAssetDownloadLink(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.GetAssetDownloadLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, catalog.DownloadLink{URL: url})
}

// GetProductDownloads returns one download link per purchasable asset
func (h *Handler) GetProductDownloads(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.GetProductDownloads(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, links)
}

// Subscribe records an email address; responds 204 with no body
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, &catalog.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	if _, err := h.service.Subscribe(r.Context(), catalog.SubscribeRequest{Email: req.Email}); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) productResponse(r *http.Request, product *catalog.Product) (ProductResponse, error) {
	src, err := h.service.CoverImageURL(r.Context(), product)
	if err != nil {
		return ProductResponse{}, err
	}

	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Images:      []ImageSource{{Src: src}},
		CreatedAt:   product.CreatedAt,
	}, nil
}

// decodeCoverImage accepts base64 payloads with or without a data-URL
// prefix; anything that does not decode is passed through as raw bytes.
func decodeCoverImage(s string) []byte {
	payload := s
	if strings.HasPrefix(payload, "data:") {
		if i := strings.IndexByte(payload, ','); i >= 0 {
			payload = payload[i+1:]
		}
	}
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data
	}
	return []byte(s)
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidInput):
		render.Status(r, http.StatusBadRequest)
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, catalog.ErrAssetNotFound):
		render.Status(r, http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		render.Status(r, http.StatusInternalServerError)
	}

	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
