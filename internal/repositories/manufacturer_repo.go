package repositories

import (
	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type ManufacturerRepository interface {
	listing.DataSource[models.Manufacturer]
}

var manufacturerTable = tableSpec[models.Manufacturer]{
	table:  "manufacturers",
	schema: models.ManufacturerSchema,
	columns: []string{"manufacturerid", "manufacturername", "country", "contactemail", "contactphone", "website",
		"addeddate", "modifieddate"},
	text: []string{"manufacturername", "country", "contactemail", "contactphone", "website"},
	scan: func(row pgx.Row) (models.Manufacturer, error) {
		var m models.Manufacturer
		err := row.Scan(&m.ManufacturerID, &m.ManufacturerName, &m.Country, &m.ContactEmail, &m.ContactPhone, &m.Website,
			&m.AddedDate, &m.ModifiedDate)
		return m, err
	},
	values: func(m models.Manufacturer) []any {
		return []any{m.ManufacturerName, m.Country, m.ContactEmail, m.ContactPhone, m.Website, m.AddedDate, m.ModifiedDate}
	},
}

func NewManufacturerRepo(db DBTX) ManufacturerRepository {
	return &tableRepo[models.Manufacturer]{db: db, spec: manufacturerTable}
}
