package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// BrandHandler serves the brand directory endpoints.
type BrandHandler struct {
	brands ports.BrandService
}

func NewBrandHandler(brands ports.BrandService) *BrandHandler {
	return &BrandHandler{brands: brands}
}

// List handles GET /v1/brands — the brand directory, optionally filtered
// by category. Contact details are only included for premium viewers.
//
// @Summary      List active brands
// @Tags         brands
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  brandDirectoryResponse
// @Failure      500       {object}  errorResponse
// @Router       /v1/brands [get]
func (h *BrandHandler) List(c echo.Context) error {
	viewerID, _ := ctxUser(c)
	category := c.QueryParam("category")

	dir, err := h.brands.List(c.Request().Context(), category, viewerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDirectoryResponse(dir))
}

// Categories handles GET /v1/brands/categories — distinct categories of
// active brands, for the directory's filter dropdown.
//
// @Summary      List brand categories
// @Tags         brands
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/brands/categories [get]
func (h *BrandHandler) Categories(c echo.Context) error {
	cats, err := h.brands.Categories(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categoriesResponse{Categories: cats})
}

func toDirectoryResponse(dir *ports.BrandDirectory) brandDirectoryResponse {
	brands := make([]brandResponse, 0, len(dir.Brands))
	for _, listing := range dir.Brands {
		br := brandResponse{
			ID:         listing.Brand.ID,
			Name:       listing.Brand.Name,
			Category:   listing.Brand.Category,
			WebsiteURL: listing.Brand.WebsiteURL,
			CreatedAt:  listing.Brand.CreatedAt,
		}
		for _, ct := range listing.Contacts {
			br.Contacts = append(br.Contacts, contactResponse{
				Email: ct.Email,
				Name:  ct.Name,
				Role:  ct.Role,
			})
		}
		brands = append(brands, br)
	}

	return brandDirectoryResponse{
		Brands:    brands,
		Total:     len(brands),
		IsPremium: dir.IsPremium,
	}
}
