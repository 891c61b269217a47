package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"assetdesk/internal/common"
	"assetdesk/internal/listing"
	"assetdesk/internal/models"
	"assetdesk/internal/services"
	"assetdesk/internal/storage"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Export query parameters, in addition to the list parameters.
const (
	ParamFormat = "format"
	ParamUpload = "upload"
)

// CollectionHandlers serves the REST surface of one master-data kind.
type CollectionHandlers[T listing.Record] struct {
	coll    *listing.Collection[T]
	exports services.ExportService
	log     *zap.Logger
}

func NewCollectionHandlers[T listing.Record](coll *listing.Collection[T], exports services.ExportService, log *zap.Logger) *CollectionHandlers[T] {
	return &CollectionHandlers[T]{
		coll:    coll,
		exports: exports,
		log:     log.With(zap.String("kind", coll.Schema().Kind)),
	}
}

// Register mounts the kind's routes under g.
func (h *CollectionHandlers[T]) Register(g *echo.Group) {
	base := "/" + h.coll.Schema().Kind
	g.GET(base, h.List)
	g.POST(base, h.Create)
	g.GET(base+"/export", h.Export)
	g.POST(base+"/bulk-delete", h.BulkDelete)
	g.GET(base+"/:id", h.Get)
	g.PATCH(base+"/:id", h.Update)
	g.DELETE(base+"/:id", h.Delete)
}

func (h *CollectionHandlers[T]) listParams(reserved ...string) common.ListParams {
	schema := h.coll.Schema()
	return common.ListParams{
		Initial:   schema.InitialQuery(),
		CanFilter: schema.CanFilter,
		Reserved:  reserved,
	}
}

// List handles GET /v1/{kind}
func (h *CollectionHandlers[T]) List(c echo.Context) error {
	q, err := common.ParseListQuery(c.QueryParams(), h.listParams())
	if err != nil {
		return common.SendListingError(c, err)
	}

	page, err := h.coll.Query(c.Request().Context(), q)
	if err != nil {
		h.log.Warn("List failed", zap.String("query", q.Fingerprint()), zap.Error(err))
		return common.SendListingError(c, err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/{kind}/:id
func (h *CollectionHandlers[T]) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendListingError(c, err)
	}
	item, err := h.coll.Get(c.Request().Context(), id)
	if err != nil {
		return common.SendListingError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /v1/{kind}. Unknown fields are rejected; the id is
// always assigned by the server.
func (h *CollectionHandlers[T]) Create(c echo.Context) error {
	fields, err := decodeFields(c.Request().Body)
	if err != nil {
		return common.SendListingError(c, err)
	}
	delete(fields, h.coll.Schema().IDField)

	var zero T
	item, err := listing.Merge(zero, fields)
	if err != nil {
		return common.SendListingError(c, err)
	}

	created, err := h.coll.Create(c.Request().Context(), item)
	if err != nil {
		return common.SendListingError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PATCH /v1/{kind}/:id with a partial JSON object.
func (h *CollectionHandlers[T]) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendListingError(c, err)
	}
	fields, err := decodeFields(c.Request().Body)
	if err != nil {
		return common.SendListingError(c, err)
	}

	updated, err := h.coll.Update(c.Request().Context(), id, fields)
	if err != nil {
		return common.SendListingError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/{kind}/:id
func (h *CollectionHandlers[T]) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendListingError(c, err)
	}
	if err := h.coll.Delete(c.Request().Context(), id); err != nil {
		return common.SendListingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDelete handles POST /v1/{kind}/bulk-delete. Individual failures are
// reported in the result, not as an error status.
func (h *CollectionHandlers[T]) BulkDelete(c echo.Context) error {
	var req models.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := listing.ValidateStruct(req); err != nil {
		return common.SendListingError(c, err)
	}

	started := time.Now()
	res := h.coll.BulkDelete(c.Request().Context(), req.IDs)
	return c.JSON(http.StatusOK, models.NewBulkOperationResult(h.coll.Schema().Plural, req.IDs, res, started))
}

// Export handles GET /v1/{kind}/export?format=csv|pdf. With upload=true the
// file goes to object storage and the response carries a download link.
func (h *CollectionHandlers[T]) Export(c echo.Context) error {
	q, err := common.ParseListQuery(c.QueryParams(), h.listParams(ParamFormat, ParamUpload))
	if err != nil {
		return common.SendListingError(c, err)
	}
	upload, _ := strconv.ParseBool(c.QueryParam(ParamUpload))

	res, err := h.exports.Export(c.Request().Context(), services.ExportRequest{
		Kind:   h.coll.Schema().Kind,
		Query:  q,
		Format: c.QueryParam(ParamFormat),
		Upload: upload,
	})
	if err != nil {
		h.log.Warn("Export failed", zap.Error(err))
		if errors.Is(err, storage.ErrStorageDisabled) {
			return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse(common.CodeUnavailable, err.Error(), nil))
		}
		return common.SendListingError(c, err)
	}
	if res.Upload != nil {
		return c.JSON(http.StatusCreated, res)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.FileName))
	return c.Blob(http.StatusOK, res.ContentType, res.Data)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &listing.ValidationError{Field: "id", Msg: "must be a positive integer"}
	}
	return id, nil
}

func decodeFields(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &listing.ValidationError{Msg: "request body is empty"}
		}
		return nil, &listing.ValidationError{Msg: "request body must be a JSON object: " + strings.TrimPrefix(err.Error(), "json: ")}
	}
	if fields == nil {
		return nil, &listing.ValidationError{Msg: "request body must be a JSON object"}
	}
	return fields, nil
}
