package repositories

import (
	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type BusinessUnitRepository interface {
	listing.DataSource[models.BusinessUnit]
}

var businessUnitTable = tableSpec[models.BusinessUnit]{
	table:   "business_units",
	schema:  models.BusinessUnitSchema,
	columns: []string{"businessunitid", "unitname", "unitcode", "location", "managername", "addeddate", "modifieddate"},
	text:    []string{"unitname", "unitcode", "location", "managername"},
	scan: func(row pgx.Row) (models.BusinessUnit, error) {
		var u models.BusinessUnit
		err := row.Scan(&u.BusinessUnitID, &u.UnitName, &u.UnitCode, &u.Location, &u.ManagerName, &u.AddedDate, &u.ModifiedDate)
		return u, err
	},
	values: func(u models.BusinessUnit) []any {
		return []any{u.UnitName, u.UnitCode, u.Location, u.ManagerName, u.AddedDate, u.ModifiedDate}
	},
}

func NewBusinessUnitRepo(db DBTX) BusinessUnitRepository {
	return &tableRepo[models.BusinessUnit]{db: db, spec: businessUnitTable}
}
