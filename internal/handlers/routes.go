package handlers

import (
	"net/http"

	"assetdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// KindInfo describes one collection for API clients.
type KindInfo struct {
	Kind            string   `json:"kind"`
	Label           string   `json:"label"`
	Plural          string   `json:"plural"`
	IDField         string   `json:"id_field"`
	SearchFields    []string `json:"search_fields"`
	Sortable        []string `json:"sortable"`
	Filterable      []string `json:"filterable"`
	DefaultOrdering string   `json:"default_ordering"`
}

// RegisterCatalogRoutes mounts every collection of the catalog under g.
func RegisterCatalogRoutes(g *echo.Group, c *services.Catalog, exports services.ExportService, log *zap.Logger) {
	infos := []KindInfo{
		register(g, NewCollectionHandlers(c.Assets, exports, log)),
		register(g, NewCollectionHandlers(c.AssetCategories, exports, log)),
		register(g, NewCollectionHandlers(c.AssetTypes, exports, log)),
		register(g, NewCollectionHandlers(c.Manufacturers, exports, log)),
		register(g, NewCollectionHandlers(c.BusinessUnits, exports, log)),
	}
	g.GET("/kinds", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, infos)
	})
}

type registrar interface {
	Register(g *echo.Group)
	info() KindInfo
}

func register(g *echo.Group, r registrar) KindInfo {
	r.Register(g)
	return r.info()
}

func (h *CollectionHandlers[T]) info() KindInfo {
	s := h.coll.Schema()
	return KindInfo{
		Kind:            s.Kind,
		Label:           s.Label,
		Plural:          s.Plural,
		IDField:         s.IDField,
		SearchFields:    s.SearchFields,
		Sortable:        s.Sortable,
		Filterable:      s.Filterable,
		DefaultOrdering: s.DefaultOrdering.String(),
	}
}
