package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ymm/catalog/internal/domain"
)

type categoryRequest struct {
	Shop        string `json:"shop"`
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Order       int    `json:"order"`
}

type subcategoryRequest struct {
	CategoryID  int64  `json:"categoryId" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Order       int    `json:"order"`
}

// updateRequest is the body of every taxonomy PUT. Omitted fields keep their stored values.
type updateRequest struct {
	Name          *string `json:"name" binding:"omitempty,notblank,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	Order         *int    `json:"order"`
	TerminologyID *int64  `json:"terminologyId" binding:"omitempty,gt=0"`
}

type partTypeRequest struct {
	SubcategoryID int64  `json:"subCategoryId" binding:"required,gt=0"`
	Name          string `json:"name" binding:"required,notblank,max=255"`
	Description   string `json:"description" binding:"max=2000"`
	TerminologyID *int64 `json:"terminologyId" binding:"omitempty,gt=0"`
	Order         int    `json:"order"`
}

func (h *Handler) listCategories(c *gin.Context) {
	tree, err := h.taxonomy.Tree(c.Request.Context(), domain.ShopFrom(c.Request.Context()))
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"categories": tree})
}

func (h *Handler) getCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	category, err := h.taxonomy.Category(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"category": category})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}
	if req.Shop == "" {
		req.Shop = domain.ShopFrom(c.Request.Context())
	}

	category, err := h.taxonomy.CreateCategory(c.Request.Context(), domain.CategoryInput(req))
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"category": category})
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	category, err := h.taxonomy.UpdateCategory(c.Request.Context(), id, domain.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		respondError(c, err, "Failed to update category")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"category": category})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	if err := h.taxonomy.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}
	respondOK(c, http.StatusOK, nil)
}

func (h *Handler) listSubcategories(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("categoryId"), 10, 64)

	subcategories, err := h.taxonomy.Subcategories(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err, "Failed to fetch subcategories")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"subcategories": subcategories})
}

func (h *Handler) createSubcategory(c *gin.Context) {
	var req subcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	sub, err := h.taxonomy.CreateSubcategory(c.Request.Context(), domain.SubcategoryInput(req))
	if err != nil {
		respondError(c, err, "Failed to create subcategory")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"subcategory": sub})
}

func (h *Handler) updateSubcategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	sub, err := h.taxonomy.UpdateSubcategory(c.Request.Context(), id, domain.SubcategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		respondError(c, err, "Failed to update subcategory")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"subcategory": sub})
}

func (h *Handler) deleteSubcategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	if err := h.taxonomy.DeleteSubcategory(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete subcategory")
		return
	}
	respondOK(c, http.StatusOK, nil)
}

func (h *Handler) listPartTypes(c *gin.Context) {
	subcategoryID, _ := strconv.ParseInt(c.Query("subCategoryId"), 10, 64)

	partTypes, err := h.taxonomy.PartTypes(c.Request.Context(), subcategoryID)
	if err != nil {
		respondError(c, err, "Failed to fetch part types")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"partTypes": partTypes})
}

func (h *Handler) createPartType(c *gin.Context) {
	var req partTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	pt, err := h.taxonomy.CreatePartType(c.Request.Context(), domain.PartTypeInput(req))
	if err != nil {
		respondError(c, err, "Failed to create part type")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"partType": pt})
}

func (h *Handler) updatePartType(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	pt, err := h.taxonomy.UpdatePartType(c.Request.Context(), id, domain.PartTypeUpdate(req))
	if err != nil {
		respondError(c, err, "Failed to update part type")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"partType": pt})
}

func (h *Handler) deletePartType(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	if err := h.taxonomy.DeletePartType(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete part type")
		return
	}
	respondOK(c, http.StatusOK, nil)
}

// publicCategories serves the widget's category hierarchy, optionally narrowed by ?shop=
func (h *Handler) publicCategories(c *gin.Context) {
	tree, err := h.taxonomy.Tree(c.Request.Context(), c.Query("shop"))
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	respondOK(c, http.StatusOK, gin.H{"categories": tree})
}
