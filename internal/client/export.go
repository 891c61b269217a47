package client

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"assetdesk/internal/common"
	"assetdesk/internal/listing"
	"assetdesk/internal/storage"
)

// ExportFile is the outcome of an export: either the file contents or,
// when the server stored the file, where to fetch it.
type ExportFile struct {
	Kind        string          `json:"kind"`
	FileName    string          `json:"file_name"`
	ContentType string          `json:"content_type"`
	Rows        int             `json:"rows"`
	Data        []byte          `json:"-"`
	Upload      *storage.Upload `json:"upload,omitempty"`
}

// Export asks the server to export every record of kind matching q.
func (c *Client) Export(ctx context.Context, kind string, q listing.QueryState, format string, upload bool) (*ExportFile, error) {
	values := common.EncodeListQuery(q.Normalize())
	values.Del(common.ParamPage)
	values.Del(common.ParamPageSize)
	if format != "" {
		values.Set("format", format)
	}
	if upload {
		values.Set("upload", strconv.FormatBool(true))
	}

	res, err := c.do(ctx, kind, listing.OpQuery, http.MethodGet, "/"+kind+"/export", values, nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusCreated:
		var out ExportFile
		if err := json.Unmarshal(res.body, &out); err != nil {
			return nil, fmt.Errorf("decode export of %s: %w", kind, err)
		}
		return &out, nil
	case http.StatusOK:
		out := &ExportFile{
			Kind:        kind,
			ContentType: res.header.Get("Content-Type"),
			Data:        res.body,
		}
		if _, params, err := mime.ParseMediaType(res.header.Get("Content-Disposition")); err == nil {
			out.FileName = params["filename"]
		}
		return out, nil
	}
	return nil, apiError(kind, kind, listing.OpQuery, 0, res)
}
