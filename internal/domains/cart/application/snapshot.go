package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// recordFields are the snapshot keys owned by the cart. Anything else on a
// line item is a catalog attribute and is written back untouched.
var recordFields = []string{"id", "title", "price", "image", "amount"}

// jsonPrice writes a decimal as a bare JSON number, the way the catalog
// sends it. Quoted prices are still accepted on decode.
type jsonPrice struct {
	decimal.Decimal
}

func (p jsonPrice) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// lineItemRecord is the persisted shape of a line item.
type lineItemRecord struct {
	ID         int64                      `json:"id"`
	Title      string                     `json:"title"`
	Price      jsonPrice                  `json:"price"`
	Image      string                     `json:"image"`
	Amount     int                        `json:"amount"`
	Attributes map[string]json.RawMessage `json:"-"`
}

func (r lineItemRecord) MarshalJSON() ([]byte, error) {
	type plain lineItemRecord
	base, err := json.Marshal(plain(r))
	if err != nil || len(r.Attributes) == 0 {
		return base, err
	}
	names := make([]string, 0, len(r.Attributes))
	for name := range r.Attributes {
		if !slices.Contains(recordFields, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, name := range names {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(r.Attributes[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *lineItemRecord) UnmarshalJSON(data []byte) error {
	type plain lineItemRecord
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, name := range recordFields {
		delete(fields, name)
	}
	if len(fields) > 0 {
		base.Attributes = fields
	}
	*r = lineItemRecord(base)
	return nil
}

func encodeCart(cart domain.Cart) (string, error) {
	records := make([]lineItemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		records = append(records, lineItemRecord{
			ID:         item.ID,
			Title:      item.Title,
			Price:      jsonPrice{item.Price},
			Image:      item.Image,
			Amount:     item.Amount,
			Attributes: item.Attributes,
		})
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode cart snapshot: %w", err)
	}
	return string(payload), nil
}

func decodeCart(value string) (domain.Cart, error) {
	var records []lineItemRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	cart := domain.Cart{Items: make([]domain.Product, 0, len(records))}
	for _, rec := range records {
		cart.Items = append(cart.Items, domain.Product{
			ID:         rec.ID,
			Title:      rec.Title,
			Price:      rec.Price.Decimal,
			Image:      rec.Image,
			Amount:     rec.Amount,
			Attributes: rec.Attributes,
		})
	}
	if err := cart.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("invalid cart snapshot: %w", err)
	}
	return cart, nil
}
