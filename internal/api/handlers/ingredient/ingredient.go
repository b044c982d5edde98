package ingredient

import (
	"context"
	"net/http"

	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Lister 食材列表來源
type Lister interface {
	FindIngredientsOrderedByName(ctx context.Context) ([]catalog.Ingredient, error)
}

// Handler 食材處理程序
type Handler struct {
	store Lister
}

// NewHandler 創建食材處理程序
func NewHandler(store Lister) *Handler {
	return &Handler{store: store}
}

// List GET /api/ingredients，依名稱排序
func (h *Handler) List(c *gin.Context) {
	ingredients, err := h.store.FindIngredientsOrderedByName(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, common.ErrInternalError.Wrap(err))
		return
	}

	out := make([]common.IngredientDto, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, common.IngredientDto{ID: ing.ID, Name: ing.Name, Category: ing.Category})
	}
	c.JSON(http.StatusOK, out)
}
