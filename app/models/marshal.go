package models

import "encoding/json"

// The derived fields below are serialized on every read but never stored:
// recomputing at marshal time is what keeps them from going stale.

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		IsLowStock bool `json:"isLowStock"`
	}{alias(p), p.IsLowStock()})
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		TotalValue float64 `json:"totalValue"`
	}{alias(t), t.TotalValue()})
}
