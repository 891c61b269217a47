package models

import "time"

type BusinessUnit struct {
	BusinessUnitID int64      `json:"businessunitid" db:"businessunitid"`
	UnitName       string     `json:"unitname" db:"unitname" validate:"required,max=100"`
	UnitCode       string     `json:"unitcode" db:"unitcode" validate:"required,alphanum,max=20"`
	Location       string     `json:"location" db:"location" validate:"max=150"`
	ManagerName    string     `json:"managername" db:"managername" validate:"max=100"`
	AddedDate      time.Time  `json:"addeddate" db:"addeddate"`
	ModifiedDate   *time.Time `json:"modifieddate,omitempty" db:"modifieddate"`
}

func (u BusinessUnit) RecordID() int64 { return u.BusinessUnitID }

func (u BusinessUnit) FieldValue(field string) (any, bool) {
	switch field {
	case "businessunitid":
		return u.BusinessUnitID, true
	case "unitname":
		return u.UnitName, true
	case "unitcode":
		return u.UnitCode, true
	case "location":
		return u.Location, true
	case "managername":
		return u.ManagerName, true
	case "addeddate":
		return u.AddedDate, !u.AddedDate.IsZero()
	case "modifieddate":
		return timePtr(u.ModifiedDate)
	}
	return nil, false
}
