package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatbazar/hatbazar/internal/catalog"
	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/service"
)

// listFrom serves the public listing for one catalog. Both catalogs share
// the query contract and response envelope.
func listFrom(svc *service.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := catalog.ParseQuery(c.QueryParams())
		if err != nil {
			return err
		}

		page, err := svc.List(c.Request().Context(), q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	}
}

func getFrom(svc *service.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := svc.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func filtersFrom(svc *service.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		opts, err := svc.Facets(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, opts)
	}
}

// Public marketplace catalog.

func (h *Handler) ListProducts(c echo.Context) error { return listFrom(h.Products)(c) }
func (h *Handler) GetProduct(c echo.Context) error { return getFrom(h.Products)(c) }
func (h *Handler) ProductFilters(c echo.Context) error { return filtersFrom(h.Products)(c) }

// Electronics demo catalog.

func (h *Handler) ListElectronics(c echo.Context) error { return listFrom(h.Electronics)(c) }
func (h *Handler) GetElectronics(c echo.Context) error { return getFrom(h.Electronics)(c) }
func (h *Handler) ElectronicsFilters(c echo.Context) error { return filtersFrom(h.Electronics)(c) }

// productPayload is the create-product request body. Price fields are
// integer minor units (poisha).
type productPayload struct {
	Name           string            `json:"name" validate:"required"`
	Description    string            `json:"description"`
	Price          int64             `json:"price" validate:"required,gt=0"`
	OriginalPrice  int64             `json:"originalPrice" validate:"omitempty,gte=0"`
	Category       string            `json:"category" validate:"required"`
	Condition      string            `json:"condition" validate:"omitempty,oneof=new like-new good fair poor"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Images         []string          `json:"images"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Stock          int               `json:"stock" validate:"gte=0"`
	IsFeatured     bool              `json:"isFeatured"`
	IsPublished    bool              `json:"isPublished"`
}

// productUpdatePayload is the partial-update request body; absent fields
// leave the product untouched.
type productUpdatePayload struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	Price          *int64            `json:"price" validate:"omitempty,gt=0"`
	OriginalPrice  *int64            `json:"originalPrice" validate:"omitempty,gte=0"`
	Category       *string           `json:"category"`
	Condition      *string           `json:"condition" validate:"omitempty,oneof=new like-new good fair poor"`
	Brand          *string           `json:"brand"`
	Model          *string           `json:"model"`
	Images         []string          `json:"images"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Stock          *int              `json:"stock" validate:"omitempty,gte=0"`
	IsFeatured     *bool             `json:"isFeatured"`
	IsPublished    *bool             `json:"isPublished"`
}

// SellerListProducts returns the caller's own products, all statuses.
func (h *Handler) SellerListProducts(c echo.Context) error {
	q, err := catalog.ParseQuery(c.QueryParams())
	if err != nil {
		return err
	}

	page, err := h.Products.ListOwn(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// CreateProduct inserts a product owned by the calling seller.
func (h *Handler) CreateProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return domain.Invalid("api.product.create", "invalid request payload")
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	p, err := h.Products.Create(c.Request().Context(), domain.CreateProductParams{
		Name:               payload.Name,
		Description:        payload.Description,
		PriceCents:         payload.Price,
		OriginalPriceCents: payload.OriginalPrice,
		Category:           payload.Category,
		Condition:          domain.Condition(payload.Condition),
		Brand:              payload.Brand,
		Model:              payload.Model,
		Images:             payload.Images,
		Features:           payload.Features,
		Specifications:     payload.Specifications,
		Stock:              payload.Stock,
		IsFeatured:         payload.IsFeatured,
		IsPublished:        payload.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct applies a partial update to an owned product.
func (h *Handler) UpdateProduct(c echo.Context) error {
	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return domain.Invalid("api.product.update", "invalid request payload")
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	params := domain.UpdateProductParams{
		Name:               payload.Name,
		Description:        payload.Description,
		PriceCents:         payload.Price,
		OriginalPriceCents: payload.OriginalPrice,
		Category:           payload.Category,
		Brand:              payload.Brand,
		Model:              payload.Model,
		Images:             payload.Images,
		Features:           payload.Features,
		Specifications:     payload.Specifications,
		Stock:              payload.Stock,
		IsFeatured:         payload.IsFeatured,
		IsPublished:        payload.IsPublished,
	}
	if payload.Condition != nil {
		cond := domain.Condition(*payload.Condition)
		params.Condition = &cond
	}

	p, err := h.Products.Update(c.Request().Context(), c.Param("id"), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct removes an owned product.
func (h *Handler) DeleteProduct(c echo.Context) error {
	if err := h.Products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminListProducts returns every product regardless of publication state.
func (h *Handler) AdminListProducts(c echo.Context) error {
	q, err := catalog.ParseQuery(c.QueryParams())
	if err != nil {
		return err
	}

	page, err := h.Products.ListAll(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
