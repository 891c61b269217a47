package repositories

import (
	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type AssetTypeRepository interface {
	listing.DataSource[models.AssetType]
}

var assetTypeTable = tableSpec[models.AssetType]{
	table:   "asset_types",
	schema:  models.AssetTypeSchema,
	columns: []string{"assettypeid", "typename", "description", "assetcategoryid", "categoryname", "addeddate", "modifieddate"},
	text:    []string{"typename", "description", "categoryname"},
	scan: func(row pgx.Row) (models.AssetType, error) {
		var t models.AssetType
		err := row.Scan(&t.AssetTypeID, &t.TypeName, &t.Description, &t.AssetCategoryID, &t.CategoryName, &t.AddedDate, &t.ModifiedDate)
		return t, err
	},
	values: func(t models.AssetType) []any {
		return []any{t.TypeName, t.Description, t.AssetCategoryID, t.CategoryName, t.AddedDate, t.ModifiedDate}
	},
}

func NewAssetTypeRepo(db DBTX) AssetTypeRepository {
	return &tableRepo[models.AssetType]{db: db, spec: assetTypeTable}
}
