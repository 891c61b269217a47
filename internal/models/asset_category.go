package models

import "time"

type AssetCategory struct {
	AssetCategoryID int64      `json:"assetcategoryid" db:"assetcategoryid"`
	CategoryName    string     `json:"categoryname" db:"categoryname" validate:"required,max=100"`
	Description     string     `json:"description" db:"description" validate:"max=500"`
	IsActive        bool       `json:"isactive" db:"isactive"`
	AddedDate       time.Time  `json:"addeddate" db:"addeddate"`
	ModifiedDate    *time.Time `json:"modifieddate,omitempty" db:"modifieddate"`
}

func (c AssetCategory) RecordID() int64 { return c.AssetCategoryID }

func (c AssetCategory) FieldValue(field string) (any, bool) {
	switch field {
	case "assetcategoryid":
		return c.AssetCategoryID, true
	case "categoryname":
		return c.CategoryName, true
	case "description":
		return c.Description, true
	case "isactive":
		return c.IsActive, true
	case "addeddate":
		return c.AddedDate, !c.AddedDate.IsZero()
	case "modifieddate":
		return timePtr(c.ModifiedDate)
	}
	return nil, false
}
