package models

import (
	"time"

	"assetdesk/internal/listing"
)

// REST path segments, one per master-data collection.
const (
	KindAssetCategories = "asset-categories"
	KindAssetTypes      = "asset-types"
	KindManufacturers   = "manufacturers"
	KindBusinessUnits   = "business-units"
	KindAssets          = "assets"
)

// Kinds lists every collection in menu order.
var Kinds = []string{KindAssets, KindAssetCategories, KindAssetTypes, KindManufacturers, KindBusinessUnits}

var byRecency = listing.Ordering{Field: "addeddate", Direction: listing.Descending}

var AssetCategorySchema = listing.Schema[AssetCategory]{
	Kind:            KindAssetCategories,
	Label:           "asset category",
	Plural:          "asset categories",
	IDField:         "assetcategoryid",
	CreatedField:    "addeddate",
	ModifiedField:   "modifieddate",
	SearchFields:    []string{"categoryname", "description"},
	UniqueField:     "categoryname",
	Sortable:        []string{"assetcategoryid", "categoryname", "description", "isactive", "addeddate", "modifieddate"},
	Filterable:      []string{"isactive"},
	DefaultOrdering: byRecency,
}

var AssetTypeSchema = listing.Schema[AssetType]{
	Kind:            KindAssetTypes,
	Label:           "asset type",
	Plural:          "asset types",
	IDField:         "assettypeid",
	CreatedField:    "addeddate",
	ModifiedField:   "modifieddate",
	SearchFields:    []string{"typename", "description", "categoryname"},
	UniqueField:     "typename",
	Sortable:        []string{"assettypeid", "typename", "categoryname", "addeddate", "modifieddate"},
	Filterable:      []string{"assetcategoryid", "categoryname"},
	DefaultOrdering: byRecency,
}

var ManufacturerSchema = listing.Schema[Manufacturer]{
	Kind:            KindManufacturers,
	Label:           "manufacturer",
	Plural:          "manufacturers",
	IDField:         "manufacturerid",
	CreatedField:    "addeddate",
	ModifiedField:   "modifieddate",
	SearchFields:    []string{"manufacturername", "country", "contactemail", "website"},
	UniqueField:     "manufacturername",
	Sortable:        []string{"manufacturerid", "manufacturername", "country", "addeddate", "modifieddate"},
	Filterable:      []string{"country"},
	DefaultOrdering: byRecency,
}

var BusinessUnitSchema = listing.Schema[BusinessUnit]{
	Kind:            KindBusinessUnits,
	Label:           "business unit",
	Plural:          "business units",
	IDField:         "businessunitid",
	CreatedField:    "addeddate",
	ModifiedField:   "modifieddate",
	SearchFields:    []string{"unitname", "unitcode", "location"},
	UniqueField:     "unitname",
	Sortable:        []string{"businessunitid", "unitname", "unitcode", "location", "addeddate", "modifieddate"},
	Filterable:      []string{"location", "unitcode"},
	DefaultOrdering: byRecency,
}

var AssetSchema = listing.Schema[Asset]{
	Kind:          KindAssets,
	Label:         "asset",
	Plural:        "assets",
	IDField:       "assetid",
	CreatedField:  "addeddate",
	ModifiedField: "modifieddate",
	SearchFields:  []string{"assetname", "serialnumber", "assettag", "modelnumber", "location", "status"},
	UniqueField:   "serialnumber",
	Sortable: []string{"assetid", "assetname", "serialnumber", "assettag", "modelnumber", "location",
		"status", "purchasedate", "purchasecost", "addeddate", "modifieddate"},
	Filterable:      []string{"status", "location", "assetcategoryid", "assettypeid", "manufacturerid", "businessunitid"},
	DefaultOrdering: byRecency,
	Validate:        validateAsset,
}

func validateAsset(a Asset) error {
	if a.PurchaseDate != nil && a.PurchaseDate.After(time.Now().Add(24*time.Hour)) {
		return &listing.ValidationError{Field: "purchasedate", Msg: "cannot be in the future"}
	}
	return nil
}
