package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
	"github.com/Gitisfun/price-tracker-api/internal/service"
)

// ProductService is the slice of the product service the HTTP layer needs.
type ProductService interface {
	Create(ctx context.Context, name, url string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Report(ctx context.Context, id string) (*domain.PriceReport, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler handles product CRUD and price-report requests.
type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// Create registers a new product for tracking.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.Name, req.URL)
	if err != nil {
		if errors.Is(err, service.ErrProductExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "product with this url already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create product failed"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list products failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get product failed"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Report returns the derived latest/previous/rate-of-change fields for a
// product's price history.
func (h *ProductHandler) Report(c *gin.Context) {
	report, err := h.products.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "build report failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete product failed"})
		return
	}

	c.Status(http.StatusNoContent)
}
