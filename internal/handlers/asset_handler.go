package handlers

import (
	"github.com/Santhu8632/metamorphosisworkshop/pkg/storage"

	"github.com/gin-gonic/gin"
)

// AssetHandler отдает загруженные файлы из хранилища
type AssetHandler struct {
	storage *storage.Storage
	render  *Renderer
}

// NewAssetHandler создает новый обработчик файлов
func NewAssetHandler(store *storage.Storage, render *Renderer) *AssetHandler {
	return &AssetHandler{storage: store, render: render}
}

// Serve возвращает обработчик для одного каталога хранилища.
// Имена с путями и несуществующие файлы дают 404.
func (h *AssetHandler) Serve(kind storage.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := h.storage.Locate(kind, c.Param("filename"))
		if err != nil {
			h.render.NotFound(c)
			return
		}

		// http.ServeFile сам выставляет Content-Type и поддерживает Range
		c.File(path)
	}
}
