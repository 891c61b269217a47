package models

import "time"

// Asset statuses accepted by the API.
const (
	AssetStatusActive      = "active"
	AssetStatusInactive    = "inactive"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
	AssetStatusDisposed    = "disposed"
)

// Asset is a tracked piece of hardware. The reference ids are optional and
// filterable.
type Asset struct {
	AssetID         int64      `json:"assetid" db:"assetid"`
	AssetName       string     `json:"assetname" db:"assetname" validate:"required,max=150"`
	SerialNumber    string     `json:"serialnumber" db:"serialnumber" validate:"required,max=100"`
	AssetTag        string     `json:"assettag" db:"assettag" validate:"max=50"`
	ModelNumber     string     `json:"modelnumber" db:"modelnumber" validate:"max=100"`
	AssetCategoryID *int64     `json:"assetcategoryid,omitempty" db:"assetcategoryid"`
	AssetTypeID     *int64     `json:"assettypeid,omitempty" db:"assettypeid"`
	ManufacturerID  *int64     `json:"manufacturerid,omitempty" db:"manufacturerid"`
	BusinessUnitID  *int64     `json:"businessunitid,omitempty" db:"businessunitid"`
	Location        string     `json:"location" db:"location" validate:"max=150"`
	Status          string     `json:"status" db:"status" validate:"omitempty,oneof=active inactive maintenance retired disposed"`
	PurchaseDate    *time.Time `json:"purchasedate,omitempty" db:"purchasedate"`
	PurchaseCost    float64    `json:"purchasecost" db:"purchasecost" validate:"gte=0"`
	AddedDate       time.Time  `json:"addeddate" db:"addeddate"`
	ModifiedDate    *time.Time `json:"modifieddate,omitempty" db:"modifieddate"`
}

func (a Asset) RecordID() int64 { return a.AssetID }

func (a Asset) FieldValue(field string) (any, bool) {
	switch field {
	case "assetid":
		return a.AssetID, true
	case "assetname":
		return a.AssetName, true
	case "serialnumber":
		return a.SerialNumber, true
	case "assettag":
		return a.AssetTag, true
	case "modelnumber":
		return a.ModelNumber, true
	case "assetcategoryid":
		return int64Ptr(a.AssetCategoryID)
	case "assettypeid":
		return int64Ptr(a.AssetTypeID)
	case "manufacturerid":
		return int64Ptr(a.ManufacturerID)
	case "businessunitid":
		return int64Ptr(a.BusinessUnitID)
	case "location":
		return a.Location, true
	case "status":
		return a.Status, true
	case "purchasedate":
		return timePtr(a.PurchaseDate)
	case "purchasecost":
		return a.PurchaseCost, true
	case "addeddate":
		return a.AddedDate, !a.AddedDate.IsZero()
	case "modifieddate":
		return timePtr(a.ModifiedDate)
	}
	return nil, false
}

func timePtr(t *time.Time) (any, bool) {
	if t == nil {
		return nil, false
	}
	return *t, true
}

func int64Ptr(v *int64) (any, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}
