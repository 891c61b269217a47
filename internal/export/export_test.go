package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryColumns = []Column{
	{Header: "ID", Field: "assetcategoryid"},
	{Header: "Name", Field: "categoryname"},
	{Header: "Active", Field: "isactive"},
	{Header: "Missing", Field: "nope"},
}

func TestBuild(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := Build("Asset categories", categoryColumns, models.SeedAssetCategories()[:2], at)

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"1", "Computers", "true", ""}, doc.Rows[0])
	assert.Equal(t, []string{"ID", "Name", "Active", "Missing"}, doc.Headers())
}

func TestRendererFor(t *testing.T) {
	r, err := RendererFor("")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())

	r, err = RendererFor(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	_, err = RendererFor("xlsx")
	assert.ErrorIs(t, err, listing.ErrValidation)
}

func TestCSV(t *testing.T) {
	doc := Document{
		Columns: []Column{{Header: "Name", Field: "n"}, {Header: "Notes", Field: "d"}},
		Rows:    [][]string{{"Dell, Inc.", `say "hi"`}, {"HP", ""}},
	}
	var buf bytes.Buffer
	require.NoError(t, csvRenderer{}.Render(&buf, doc))
	assert.Equal(t, "Name,Notes\n\"Dell, Inc.\",\"say \"\"hi\"\"\"\nHP,\n", buf.String())
}

func TestPDF(t *testing.T) {
	assets := models.SeedAssets()
	cols := []Column{
		{Header: "Name", Field: "assetname"},
		{Header: "Serial", Field: "serialnumber"},
		{Header: "Tag", Field: "assettag"},
		{Header: "Model", Field: "modelnumber"},
		{Header: "Location", Field: "location"},
		{Header: "Status", Field: "status"},
	}
	// Enough rows to force a second page.
	var items []models.Asset
	for i := 0; i < 6; i++ {
		items = append(items, assets...)
	}
	doc := Build("Assets – Zürich office", cols, items, time.Now())

	var buf bytes.Buffer
	require.NoError(t, pdfRenderer{}.Render(&buf, doc))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Greater(t, buf.Len(), 1000)
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 5, 0, time.UTC)
	assert.Equal(t, "assets-20240501-123005.pdf", FileName("assets", pdfRenderer{}, at))
}
