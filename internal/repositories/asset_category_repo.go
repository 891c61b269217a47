package repositories

import (
	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type AssetCategoryRepository interface {
	listing.DataSource[models.AssetCategory]
}

var assetCategoryTable = tableSpec[models.AssetCategory]{
	table:   "asset_categories",
	schema:  models.AssetCategorySchema,
	columns: []string{"assetcategoryid", "categoryname", "description", "isactive", "addeddate", "modifieddate"},
	text:    []string{"categoryname", "description"},
	scan: func(row pgx.Row) (models.AssetCategory, error) {
		var c models.AssetCategory
		err := row.Scan(&c.AssetCategoryID, &c.CategoryName, &c.Description, &c.IsActive, &c.AddedDate, &c.ModifiedDate)
		return c, err
	},
	values: func(c models.AssetCategory) []any {
		return []any{c.CategoryName, c.Description, c.IsActive, c.AddedDate, c.ModifiedDate}
	},
}

func NewAssetCategoryRepo(db DBTX) AssetCategoryRepository {
	return &tableRepo[models.AssetCategory]{db: db, spec: assetCategoryTable}
}
