package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"assetdesk/internal/common"
	"assetdesk/internal/listing"
	"assetdesk/internal/models"
	"assetdesk/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type CollectionHandlersTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	catalog *services.Catalog
}

func (suite *CollectionHandlersTestSuite) SetupTest() {
	log := zap.NewNop()
	suite.catalog = services.NewCatalog(services.Backend{}, log, nil)
	suite.echo = echo.New()
	RegisterCatalogRoutes(suite.echo.Group("/v1"), suite.catalog, services.NewExportService(suite.catalog, nil, log), log)
}

func TestCollectionHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionHandlersTestSuite))
}

func (suite *CollectionHandlersTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *CollectionHandlersTestSuite) errorOf(rec *httptest.ResponseRecorder) common.ErrorResponse {
	var body common.ErrorResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (suite *CollectionHandlersTestSuite) TestList_SearchAndPaging() {
	rec := suite.do(http.MethodGet, "/v1/assets?search=LAPTOP&page_size=2&page=2", "")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var page listing.Page[models.Asset]
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	suite.Equal(3, page.TotalCount)
	suite.Equal(2, page.TotalPages)
	suite.Equal(2, page.Page)
	suite.Len(page.Items, 1)
}

func (suite *CollectionHandlersTestSuite) TestList_ClampsPastLastPage() {
	rec := suite.do(http.MethodGet, "/v1/asset-categories?page=50", "")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var page listing.Page[models.AssetCategory]
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	suite.Equal(1, page.Page)
	suite.NotEmpty(page.Items)
}

func (suite *CollectionHandlersTestSuite) TestList_FilterAndOrdering() {
	rec := suite.do(http.MethodGet, "/v1/assets?manufacturerid=1&ordering=-purchasecost", "")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var page listing.Page[models.Asset]
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	suite.Require().Equal(3, page.TotalCount)
	for i := 1; i < len(page.Items); i++ {
		suite.GreaterOrEqual(page.Items[i-1].PurchaseCost, page.Items[i].PurchaseCost)
	}
}

func (suite *CollectionHandlersTestSuite) TestList_Rejections() {
	rec := suite.do(http.MethodGet, "/v1/assets?ordering=secret", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(common.CodeValidation, suite.errorOf(rec).Error.Code)

	rec = suite.do(http.MethodGet, "/v1/assets?purchasecost=10", "")
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodGet, "/v1/assets?page=-1", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *CollectionHandlersTestSuite) TestCreateGetUpdateDelete() {
	rec := suite.do(http.MethodPost, "/v1/manufacturers", `{"manufacturerid": 500, "manufacturername": "Framework", "country": "United States"}`)
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Manufacturer
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	suite.NotEqual(int64(500), created.ManufacturerID)
	suite.False(created.AddedDate.IsZero())

	path := "/v1/manufacturers/" + strconv.FormatInt(created.ManufacturerID, 10)
	rec = suite.do(http.MethodGet, path, "")
	suite.Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPatch, path, `{"country": "Taiwan"}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Manufacturer
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
	suite.Equal("Taiwan", updated.Country)
	suite.Equal("Framework", updated.ManufacturerName)
	suite.NotNil(updated.ModifiedDate)

	rec = suite.do(http.MethodDelete, path, "")
	suite.Equal(http.StatusNoContent, rec.Code)

	rec = suite.do(http.MethodGet, path, "")
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(common.CodeNotFound, suite.errorOf(rec).Error.Code)
}

func (suite *CollectionHandlersTestSuite) TestCreate_Duplicate() {
	rec := suite.do(http.MethodPost, "/v1/asset-categories", `{"categoryname": "  computers "}`)
	suite.Require().Equal(http.StatusConflict, rec.Code)
	body := suite.errorOf(rec)
	suite.Equal(common.CodeDuplicate, body.Error.Code)
	suite.Contains(body.Error.Details, "categoryname")
}

func (suite *CollectionHandlersTestSuite) TestCreate_Validation() {
	rec := suite.do(http.MethodPost, "/v1/business-units", `{"unitname": "Finance"}`)
	suite.Require().Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(suite.errorOf(rec).Error.Details, "unitcode")

	rec = suite.do(http.MethodPost, "/v1/business-units", `{"unitname": "Finance", "unitcode": "FIN", "budget": 3}`)
	suite.Require().Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(suite.errorOf(rec).Error.Details, "budget")

	rec = suite.do(http.MethodPost, "/v1/business-units", `[1,2]`)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *CollectionHandlersTestSuite) TestUpdate_Errors() {
	rec := suite.do(http.MethodPatch, "/v1/assets/abc", `{"location": "x"}`)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPatch, "/v1/assets/9999", `{"location": "x"}`)
	suite.Equal(http.StatusNotFound, rec.Code)

	rec = suite.do(http.MethodPatch, "/v1/assets/1", `{"serialnumber": "`+models.SeedAssets()[1].SerialNumber+`"}`)
	suite.Equal(http.StatusConflict, rec.Code)
}

func (suite *CollectionHandlersTestSuite) TestBulkDelete_Partial() {
	rec := suite.do(http.MethodPost, "/v1/asset-types/bulk-delete", `{"ids": [1, 999]}`)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var res models.BulkOperationResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	suite.Equal("partial", res.Status)
	suite.Equal("Deleted 1 of 2 asset types", res.Message)
	suite.Require().Len(res.Errors, 1)
	suite.Equal("999", res.Errors[0].ItemID)

	rec = suite.do(http.MethodPost, "/v1/asset-types/bulk-delete", `{"ids": []}`)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *CollectionHandlersTestSuite) TestExport_CSV() {
	rec := suite.do(http.MethodGet, "/v1/assets/export?format=csv&search=laptop&page_size=1", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=\"assets-")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	suite.Len(lines, 4)
}

func (suite *CollectionHandlersTestSuite) TestExport_UploadWithoutStorage() {
	rec := suite.do(http.MethodGet, "/v1/assets/export?format=pdf&upload=true", "")
	suite.Equal(http.StatusServiceUnavailable, rec.Code)

	rec = suite.do(http.MethodGet, "/v1/assets/export?format=docx", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *CollectionHandlersTestSuite) TestKinds() {
	rec := suite.do(http.MethodGet, "/v1/kinds", "")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var infos []KindInfo
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &infos))
	suite.Len(infos, len(models.Kinds))
	suite.Equal(models.KindAssets, infos[0].Kind)
	suite.Equal("-addeddate", infos[0].DefaultOrdering)
}
