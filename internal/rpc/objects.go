package rpc

import (
	"context"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"github.com/mtlprog/suiledger/internal/domain"
)

const methodGetObject = "sui_getObject"

// FetchObjectsBatch fetches the current state of each object. Objects that no
// longer exist are omitted, so the result may be shorter than ids.
func (c *Client) FetchObjectsBatch(ctx context.Context, ids []string) ([]domain.ObjectSnapshot, error) {
	params := make([][]any, len(ids))
	for i, id := range ids {
		params[i] = []any{id}
	}

	raws, err := c.batch(ctx, methodGetObject, params)
	if err != nil {
		return nil, fmt.Errorf("fetching %d objects: %w", len(ids), err)
	}

	objects := make([]domain.ObjectSnapshot, 0, len(raws))
	for i, raw := range raws {
		var resp objectResponseJSON
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("parsing object %s: %w", ids[i], err)
		}
		if resp.Status != objectStatusExists {
			slog.Debug("object not available", "object_id", ids[i], "status", resp.Status)
			continue
		}
		var details objectDetailsJSON
		if err := json.Unmarshal(resp.Details, &details); err != nil {
			return nil, fmt.Errorf("parsing object %s details: %w", ids[i], err)
		}
		objects = append(objects, toSnapshot(ids[i], details))
	}
	return objects, nil
}

func toSnapshot(requestedID string, d objectDetailsJSON) domain.ObjectSnapshot {
	id := d.Reference.ObjectID
	if id == "" {
		id = requestedID
	}
	return domain.ObjectSnapshot{
		ObjectID: id,
		Type:     d.Data.Type,
		Fields: domain.ObjectFields{
			Name:        stringField(d.Data.Fields, "name"),
			Description: stringField(d.Data.Fields, "description"),
			URL:         stringField(d.Data.Fields, "url"),
			Balance:     rawField(d.Data.Fields, "balance"),
		},
	}
}

// stringField returns a string-valued field, or empty when absent or not a string.
func stringField(fields map[string]jsoniter.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// rawField returns the field's JSON text unchanged, so large integers keep every digit.
func rawField(fields map[string]jsoniter.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	return string(raw)
}
