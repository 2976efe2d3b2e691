package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Inventory is one catalog on the platform.
type Inventory struct {
	ID          int    `json:"inventory_id" yaml:"inventory_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IsDefault   bool   `json:"is_default" yaml:"is_default"`
}

// ListInventories returns every catalog the token can see.
func (c *Client) ListInventories(ctx context.Context) ([]Inventory, error) {
	var out struct {
		Inventories []Inventory `json:"inventories"`
	}
	if _, err := c.Call(ctx, "getInventories", nil, &out); err != nil {
		return nil, err
	}
	return out.Inventories, nil
}

// ListProductIDs returns the identifiers in an inventory. The products
// payload is accepted either as an object keyed by ID, in which case IDs are
// ordered numerically, or as a list of objects with an id field, in which
// case list order is kept.
func (c *Client) ListProductIDs(ctx context.Context, inventoryID int) ([]string, error) {
	var out struct {
		Products json.RawMessage `json:"products"`
	}
	raw, err := c.Call(ctx, "getInventoryProductsList", map[string]any{"inventory_id": inventoryID}, &out)
	if err != nil {
		return nil, err
	}

	ids, err := productIDs(out.Products)
	if err != nil {
		return nil, errors.NewParseError("json", "getInventoryProductsList", err.Error()+": "+string(raw), err)
	}
	c.logger.Debug().Int("inventory_id", inventoryID).Int("count", len(ids)).Msg("Listed product identifiers")
	return ids, nil
}

func productIDs(payload json.RawMessage) ([]string, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil, nil
	}

	switch payload[0] {
	case '{':
		var byID map[string]json.RawMessage
		if err := json.Unmarshal(payload, &byID); err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sortNumeric(ids)
		return ids, nil
	case '[':
		var list []struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(payload, &list); err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(list))
		for _, p := range list {
			if id := scalar(p.ID); id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil
	default:
		return nil, errors.New("products is neither an object nor a list")
	}
}

// sortNumeric orders numeric IDs by value and places any others after them.
func sortNumeric(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

type productData struct {
	SKU        json.RawMessage            `json:"sku"`
	EAN        json.RawMessage            `json:"ean"`
	Name       json.RawMessage            `json:"name"`
	TextFields map[string]json.RawMessage `json:"text_fields"`
}

// ProductDetails fetches full records for ids. IDs the API does not return
// are simply absent from the map.
func (c *Client) ProductDetails(ctx context.Context, inventoryID int, ids []string) (map[string]*records.Product, error) {
	if len(ids) == 0 {
		return map[string]*records.Product{}, nil
	}

	var out struct {
		Products map[string]productData `json:"products"`
	}
	params := map[string]any{
		"inventory_id": inventoryID,
		"products":     jsonIDs(ids),
	}
	if _, err := c.Call(ctx, "getInventoryProductsData", params, &out); err != nil {
		return nil, err
	}

	products := make(map[string]*records.Product, len(out.Products))
	for id, data := range out.Products {
		p := &records.Product{
			ID:         id,
			SKU:        scalar(data.SKU),
			EAN:        scalar(data.EAN),
			TextFields: make(map[string]string, len(data.TextFields)),
		}
		for key, value := range data.TextFields {
			p.TextFields[key] = scalar(value)
		}
		p.Name = p.TextFields["name"]
		if p.Name == "" {
			p.Name = scalar(data.Name)
		}
		products[id] = p
	}
	return products, nil
}

// SetTextField writes one text field. Only the identifying fields and the
// single key are sent so nothing else on the product is touched.
func (c *Client) SetTextField(ctx context.Context, inventoryID int, productID, key, value string) (*records.WriteResult, error) {
	params := map[string]any{
		"inventory_id": inventoryID,
		"product_id":   jsonID(productID),
		"text_fields":  map[string]string{key: value},
	}

	var env envelope
	raw, err := c.Call(ctx, "addInventoryProduct", params, &env)
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Int("inventory_id", inventoryID).
		Str("product_id", productID).
		Str("field", key).
		Msg("Updated product text field")
	return &records.WriteResult{Status: env.Status, Raw: raw}, nil
}

// scalar renders a JSON value as text: strings unquoted, null as "",
// anything else as its JSON text.
func scalar(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(v)
}

// jsonID sends numeric identifiers as JSON numbers.
func jsonID(id string) any {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func jsonIDs(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = jsonID(id)
	}
	return out
}
