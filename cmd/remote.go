package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"assetdesk/internal/client"
	"assetdesk/internal/common"
	"assetdesk/internal/config"
	"assetdesk/internal/listing"
	"assetdesk/internal/logger"
	"assetdesk/internal/middleware"
	"assetdesk/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listFlags struct {
		search, ordering string
		filters          map[string]string
		page, pageSize   int
		json             bool
	}
	exportFlags struct {
		format, out string
		upload      bool
	}
	tokenTTL = 24 * time.Hour
)

// view is a Controller over one remote collection with the type parameter
// erased, so commands can pick the kind at run time.
type view interface {
	Load(ctx context.Context) (table, error)
	Query() listing.QueryState
	BulkDelete(ctx context.Context, ids []int64) listing.BulkResult
	Close()
}

type table struct {
	Columns []string
	Rows    [][]string
	State   any
	Summary string
}

type remoteView[T listing.Record] struct {
	schema listing.Schema[T]
	ctrl   *listing.Controller[T]
	done   chan struct{}
}

func newRemoteView[T listing.Record](c *client.Client, schema listing.Schema[T], values url.Values, log *zap.Logger, out io.Writer) (*remoteView[T], error) {
	q, err := common.ParseListQuery(values, common.ListParams{
		Initial:   schema.InitialQuery(),
		CanFilter: schema.CanFilter,
	})
	if err != nil {
		return nil, err
	}
	coll := listing.NewCollection(schema, client.NewSource(c, schema), listing.WithLogger(log))
	v := &remoteView[T]{
		schema: schema,
		ctrl:   listing.NewController(coll, q),
		done:   make(chan struct{}),
	}
	events := v.ctrl.Subscribe()
	go func() {
		defer close(v.done)
		listing.Notifier{}.Run(context.Background(), events, func(n listing.Notification) {
			fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
		})
	}()
	return v, nil
}

func (v *remoteView[T]) Query() listing.QueryState {
	return v.ctrl.Query()
}

func (v *remoteView[T]) Load(ctx context.Context) (table, error) {
	state := v.ctrl.Refresh(ctx)
	if state.Error != "" {
		return table{}, errors.New(state.Error)
	}

	cols := append([]string{v.schema.IDField}, v.schema.SearchFields...)
	t := table{
		Columns: cols,
		State:   state,
		Summary: fmt.Sprintf("Page %d of %d, %d %s", state.CurrentPage, state.TotalPages, state.TotalCount, v.schema.Plural),
	}
	for _, item := range state.Items {
		row := make([]string, len(cols))
		for i, f := range cols {
			val, _ := item.FieldValue(f)
			row[i] = listing.FieldString(val)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (v *remoteView[T]) BulkDelete(ctx context.Context, ids []int64) listing.BulkResult {
	return v.ctrl.BulkDelete(ctx, ids)
}

// Close waits until every notification has been printed.
func (v *remoteView[T]) Close() {
	v.ctrl.Close()
	<-v.done
}

func viewFor(kind string, c *client.Client, values url.Values, log *zap.Logger, out io.Writer) (view, error) {
	switch kind {
	case models.KindAssets:
		return newRemoteView(c, models.AssetSchema, values, log, out)
	case models.KindAssetCategories:
		return newRemoteView(c, models.AssetCategorySchema, values, log, out)
	case models.KindAssetTypes:
		return newRemoteView(c, models.AssetTypeSchema, values, log, out)
	case models.KindManufacturers:
		return newRemoteView(c, models.ManufacturerSchema, values, log, out)
	case models.KindBusinessUnits:
		return newRemoteView(c, models.BusinessUnitSchema, values, log, out)
	}
	return nil, fmt.Errorf("unknown kind %q (want one of %s)", kind, strings.Join(models.Kinds, ", "))
}

func newClient() (*client.Client, *zap.Logger, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, nil, err
	}
	if apiURL != "" {
		cfg.Client.APIURL = apiURL
	}
	if apiToken != "" {
		cfg.Client.APIToken = apiToken
	}
	if err := cfg.ValidateClient(); err != nil {
		return nil, nil, err
	}
	log := logger.Init(cfg.Server.LogLevel)
	c, err := client.New(client.Config{
		BaseURL: cfg.Client.APIURL,
		Token:   cfg.Client.APIToken,
		RPS:     cfg.Client.RPS,
		Timeout: cfg.Client.Timeout.Duration,
	}, log)
	return c, log, err
}

func listValues() url.Values {
	values := url.Values{}
	for k, v := range listFlags.filters {
		values.Set(k, v)
	}
	if listFlags.search != "" {
		values.Set(common.ParamSearch, listFlags.search)
	}
	if listFlags.ordering != "" {
		values.Set(common.ParamOrdering, listFlags.ordering)
	}
	if listFlags.page > 0 {
		values.Set(common.ParamPage, strconv.Itoa(listFlags.page))
	}
	if listFlags.pageSize > 0 {
		values.Set(common.ParamPageSize, strconv.Itoa(listFlags.pageSize))
	}
	return values
}

func runList(cmd *cobra.Command, args []string) error {
	c, log, err := newClient()
	if err != nil {
		return err
	}
	v, err := viewFor(args[0], c, listValues(), log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer v.Close()

	t, err := v.Load(cmd.Context())
	if err != nil {
		return err
	}
	if listFlags.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(t.State)
	}
	return printTable(cmd.OutOrStdout(), t)
}

func printTable(w io.Writer, t table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(t.Columns, "\t")))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.Summary)
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	c, log, err := newClient()
	if err != nil {
		return err
	}
	v, err := viewFor(args[0], c, listValues(), log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer v.Close()

	file, err := c.Export(cmd.Context(), args[0], v.Query(), exportFlags.format, exportFlags.upload)
	if err != nil {
		return err
	}
	if file.Upload != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d rows)\n%s\nLink expires %s\n",
			file.Upload.Object, file.Rows, file.Upload.URL, file.Upload.ExpiresAt.Format(time.RFC3339))
		return nil
	}

	path := exportFlags.out
	if path == "" {
		path = file.FileName
	}
	if path == "" {
		return fmt.Errorf("server did not name the export, pass --out")
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(file.Data))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args)-1)
	for _, raw := range args[1:] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid id %q", raw)
		}
		ids = append(ids, id)
	}

	c, log, err := newClient()
	if err != nil {
		return err
	}
	v, err := viewFor(args[0], c, nil, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	res := v.BulkDelete(cmd.Context(), ids)
	v.Close()
	for _, f := range res.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %d: %s\n", f.ID, f.Error)
	}
	if res.Succeeded == 0 && res.Total > 0 {
		return fmt.Errorf("nothing was deleted")
	}
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	token, err := middleware.IssueToken(cfg.Auth.JWTSecret, args[0], tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
