package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"assetdesk/internal/export"
	"assetdesk/internal/listing"
	"assetdesk/internal/models"
	"assetdesk/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExportRequest exports every record matching Query, ignoring its page.
type ExportRequest struct {
	Kind   string
	Query  listing.QueryState
	Format string
	// Upload stores the file and returns a presigned link instead of only
	// the bytes.
	Upload bool
}

type ExportResult struct {
	Kind        string          `json:"kind"`
	FileName    string          `json:"file_name"`
	ContentType string          `json:"content_type"`
	Rows        int             `json:"rows"`
	Data        []byte          `json:"-"`
	Upload      *storage.Upload `json:"upload,omitempty"`
}

type ExportService interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
	// Snapshot exports every kind with its default query and uploads the
	// files.
	Snapshot(ctx context.Context, format string) ([]*ExportResult, error)
	Kinds() []string
}

type documentFunc func(ctx context.Context, q listing.QueryState, at time.Time) (export.Document, error)

type exportable struct {
	initial  listing.QueryState
	document documentFunc
}

type exportService struct {
	kinds map[string]exportable
	store *storage.ExportStore
	log   *zap.Logger
	now   func() time.Time
}

// NewExportService exports the catalog's collections. store may be nil, in
// which case uploads and snapshots fail with storage.ErrStorageDisabled.
func NewExportService(c *Catalog, store *storage.ExportStore, log *zap.Logger) ExportService {
	return &exportService{
		kinds: map[string]exportable{
			models.KindAssetCategories: exportableOf(c.AssetCategories, assetCategoryColumns),
			models.KindAssetTypes:      exportableOf(c.AssetTypes, assetTypeColumns),
			models.KindManufacturers:   exportableOf(c.Manufacturers, manufacturerColumns),
			models.KindBusinessUnits:   exportableOf(c.BusinessUnits, businessUnitColumns),
			models.KindAssets:          exportableOf(c.Assets, assetColumns),
		},
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func exportableOf[T listing.Record](coll *listing.Collection[T], columns []export.Column) exportable {
	schema := coll.Schema()
	title := strings.ToUpper(schema.Plural[:1]) + schema.Plural[1:]
	return exportable{
		initial: schema.InitialQuery(),
		document: func(ctx context.Context, q listing.QueryState, at time.Time) (export.Document, error) {
			items, err := coll.Matching(ctx, q)
			if err != nil {
				return export.Document{}, err
			}
			return export.Build(title, columns, items, at), nil
		},
	}
}

func (s *exportService) Kinds() []string {
	out := make([]string, 0, len(s.kinds))
	for k := range s.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *exportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	kind, ok := s.kinds[req.Kind]
	if !ok {
		return nil, &listing.ValidationError{Field: "kind", Msg: fmt.Sprintf("unknown collection %q", req.Kind)}
	}
	renderer, err := export.RendererFor(req.Format)
	if err != nil {
		return nil, err
	}

	at := s.now()
	doc, err := kind.document(ctx, req.Query, at)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render %s export: %w", req.Kind, err)
	}

	res := &ExportResult{
		Kind:        req.Kind,
		FileName:    export.FileName(req.Kind, renderer, at),
		ContentType: renderer.ContentType(),
		Rows:        len(doc.Rows),
		Data:        buf.Bytes(),
	}
	s.log.Info("Export rendered",
		zap.String("kind", req.Kind),
		zap.String("format", renderer.Extension()),
		zap.Int("rows", res.Rows))

	if req.Upload {
		up, err := s.store.Save(ctx, req.Kind, res.FileName, res.ContentType, res.Data)
		if err != nil {
			return nil, err
		}
		res.Upload = &up
	}
	return res, nil
}

func (s *exportService) Snapshot(ctx context.Context, format string) ([]*ExportResult, error) {
	if s.store == nil {
		return nil, storage.ErrStorageDisabled
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	var mu sync.Mutex
	var results []*ExportResult
	for _, name := range s.Kinds() {
		g.Go(func() error {
			res, err := s.Export(ctx, ExportRequest{Kind: name, Query: s.kinds[name].initial, Format: format, Upload: true})
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", name, err)
			}
			res.Data = nil
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Kind < results[j].Kind })
	return results, nil
}

var assetCategoryColumns = []export.Column{
	{Header: "ID", Field: "assetcategoryid"},
	{Header: "Category", Field: "categoryname"},
	{Header: "Description", Field: "description"},
	{Header: "Active", Field: "isactive"},
	{Header: "Added", Field: "addeddate"},
}

var assetTypeColumns = []export.Column{
	{Header: "ID", Field: "assettypeid"},
	{Header: "Type", Field: "typename"},
	{Header: "Category", Field: "categoryname"},
	{Header: "Description", Field: "description"},
	{Header: "Added", Field: "addeddate"},
}

var manufacturerColumns = []export.Column{
	{Header: "ID", Field: "manufacturerid"},
	{Header: "Manufacturer", Field: "manufacturername"},
	{Header: "Country", Field: "country"},
	{Header: "Email", Field: "contactemail"},
	{Header: "Phone", Field: "contactphone"},
	{Header: "Website", Field: "website"},
}

var businessUnitColumns = []export.Column{
	{Header: "ID", Field: "businessunitid"},
	{Header: "Unit", Field: "unitname"},
	{Header: "Code", Field: "unitcode"},
	{Header: "Location", Field: "location"},
	{Header: "Manager", Field: "managername"},
}

var assetColumns = []export.Column{
	{Header: "ID", Field: "assetid"},
	{Header: "Asset", Field: "assetname"},
	{Header: "Serial", Field: "serialnumber"},
	{Header: "Tag", Field: "assettag"},
	{Header: "Model", Field: "modelnumber"},
	{Header: "Location", Field: "location"},
	{Header: "Status", Field: "status"},
	{Header: "Purchased", Field: "purchasedate"},
	{Header: "Cost", Field: "purchasecost"},
}
