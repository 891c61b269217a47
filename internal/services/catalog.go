package services

import (
	"time"

	"assetdesk/internal/caching"
	"assetdesk/internal/listing"
	"assetdesk/internal/models"
	"assetdesk/internal/repositories"

	"go.uber.org/zap"
)

// Backend selects where the catalog keeps its records. A nil DB serves the
// seeded demo data from memory; a nil Cache disables the query cache.
type Backend struct {
	DB       repositories.DBTX
	Cache    caching.CacheService
	CacheTTL time.Duration
}

// Catalog holds one Collection per master-data kind.
type Catalog struct {
	AssetCategories *listing.Collection[models.AssetCategory]
	AssetTypes      *listing.Collection[models.AssetType]
	Manufacturers   *listing.Collection[models.Manufacturer]
	BusinessUnits   *listing.Collection[models.BusinessUnit]
	Assets          *listing.Collection[models.Asset]
}

func NewCatalog(b Backend, log *zap.Logger, rec listing.Recorder) *Catalog {
	if rec == nil {
		rec = listing.NopRecorder
	}
	opts := []listing.Option{listing.WithLogger(log), listing.WithRecorder(rec)}

	mode := "memory"
	if b.DB != nil {
		mode = "postgres"
	}
	log.Info("Catalog initialised", zap.String("store", mode), zap.Bool("cache", b.Cache != nil))

	return &Catalog{
		AssetCategories: newCollection(b, log, opts, models.AssetCategorySchema, models.SeedAssetCategories,
			func(db repositories.DBTX) listing.DataSource[models.AssetCategory] {
				return repositories.NewAssetCategoryRepo(db)
			}),
		AssetTypes: newCollection(b, log, opts, models.AssetTypeSchema, models.SeedAssetTypes,
			func(db repositories.DBTX) listing.DataSource[models.AssetType] {
				return repositories.NewAssetTypeRepo(db)
			}),
		Manufacturers: newCollection(b, log, opts, models.ManufacturerSchema, models.SeedManufacturers,
			func(db repositories.DBTX) listing.DataSource[models.Manufacturer] {
				return repositories.NewManufacturerRepo(db)
			}),
		BusinessUnits: newCollection(b, log, opts, models.BusinessUnitSchema, models.SeedBusinessUnits,
			func(db repositories.DBTX) listing.DataSource[models.BusinessUnit] {
				return repositories.NewBusinessUnitRepo(db)
			}),
		Assets: newCollection(b, log, opts, models.AssetSchema, models.SeedAssets,
			func(db repositories.DBTX) listing.DataSource[models.Asset] { return repositories.NewAssetRepo(db) }),
	}
}

func newCollection[T listing.Record](
	b Backend,
	log *zap.Logger,
	opts []listing.Option,
	schema listing.Schema[T],
	seed func() []T,
	repo func(repositories.DBTX) listing.DataSource[T],
) *listing.Collection[T] {
	var source listing.DataSource[T]
	if b.DB != nil {
		source = repo(b.DB)
	} else {
		source = listing.NewMemorySource(schema, seed())
	}
	if b.Cache != nil {
		source = caching.NewCachedSource(source, b.Cache, schema.Kind, b.CacheTTL, log)
	}
	return listing.NewCollection(schema, source, opts...)
}
