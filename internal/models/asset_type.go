package models

import "time"

// AssetType belongs to a category. CategoryName is the category's display
// name, kept alongside the id so lists can be searched by it.
type AssetType struct {
	AssetTypeID     int64      `json:"assettypeid" db:"assettypeid"`
	TypeName        string     `json:"typename" db:"typename" validate:"required,max=100"`
	Description     string     `json:"description" db:"description" validate:"max=500"`
	AssetCategoryID int64      `json:"assetcategoryid" db:"assetcategoryid" validate:"required,gt=0"`
	CategoryName    string     `json:"categoryname" db:"categoryname" validate:"max=100"`
	AddedDate       time.Time  `json:"addeddate" db:"addeddate"`
	ModifiedDate    *time.Time `json:"modifieddate,omitempty" db:"modifieddate"`
}

func (t AssetType) RecordID() int64 { return t.AssetTypeID }

func (t AssetType) FieldValue(field string) (any, bool) {
	switch field {
	case "assettypeid":
		return t.AssetTypeID, true
	case "typename":
		return t.TypeName, true
	case "description":
		return t.Description, true
	case "assetcategoryid":
		return t.AssetCategoryID, t.AssetCategoryID != 0
	case "categoryname":
		return t.CategoryName, true
	case "addeddate":
		return t.AddedDate, !t.AddedDate.IsZero()
	case "modifieddate":
		return timePtr(t.ModifiedDate)
	}
	return nil, false
}
