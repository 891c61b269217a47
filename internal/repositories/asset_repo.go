package repositories

import (
	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type AssetRepository interface {
	listing.DataSource[models.Asset]
}

var assetTable = tableSpec[models.Asset]{
	table:  "assets",
	schema: models.AssetSchema,
	columns: []string{"assetid", "assetname", "serialnumber", "assettag", "modelnumber",
		"assetcategoryid", "assettypeid", "manufacturerid", "businessunitid",
		"location", "status", "purchasedate", "purchasecost", "addeddate", "modifieddate"},
	text: []string{"assetname", "serialnumber", "assettag", "modelnumber", "location", "status"},
	scan: func(row pgx.Row) (models.Asset, error) {
		var a models.Asset
		err := row.Scan(&a.AssetID, &a.AssetName, &a.SerialNumber, &a.AssetTag, &a.ModelNumber,
			&a.AssetCategoryID, &a.AssetTypeID, &a.ManufacturerID, &a.BusinessUnitID,
			&a.Location, &a.Status, &a.PurchaseDate, &a.PurchaseCost, &a.AddedDate, &a.ModifiedDate)
		return a, err
	},
	values: func(a models.Asset) []any {
		return []any{a.AssetName, a.SerialNumber, a.AssetTag, a.ModelNumber,
			a.AssetCategoryID, a.AssetTypeID, a.ManufacturerID, a.BusinessUnitID,
			a.Location, a.Status, a.PurchaseDate, a.PurchaseCost, a.AddedDate, a.ModifiedDate}
	},
}

func NewAssetRepo(db DBTX) AssetRepository {
	return &tableRepo[models.Asset]{db: db, spec: assetTable}
}
