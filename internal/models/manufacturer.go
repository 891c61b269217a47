package models

import "time"

type Manufacturer struct {
	ManufacturerID   int64      `json:"manufacturerid" db:"manufacturerid"`
	ManufacturerName string     `json:"manufacturername" db:"manufacturername" validate:"required,max=150"`
	Country          string     `json:"country" db:"country" validate:"max=100"`
	ContactEmail     string     `json:"contactemail" db:"contactemail" validate:"omitempty,email,max=254"`
	ContactPhone     string     `json:"contactphone" db:"contactphone" validate:"max=30"`
	Website          string     `json:"website" db:"website" validate:"omitempty,url,max=255"`
	AddedDate        time.Time  `json:"addeddate" db:"addeddate"`
	ModifiedDate     *time.Time `json:"modifieddate,omitempty" db:"modifieddate"`
}

func (m Manufacturer) RecordID() int64 { return m.ManufacturerID }

func (m Manufacturer) FieldValue(field string) (any, bool) {
	switch field {
	case "manufacturerid":
		return m.ManufacturerID, true
	case "manufacturername":
		return m.ManufacturerName, true
	case "country":
		return m.Country, true
	case "contactemail":
		return m.ContactEmail, true
	case "contactphone":
		return m.ContactPhone, true
	case "website":
		return m.Website, true
	case "addeddate":
		return m.AddedDate, !m.AddedDate.IsZero()
	case "modifieddate":
		return timePtr(m.ModifiedDate)
	}
	return nil, false
}
