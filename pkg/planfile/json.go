package planfile

import (
	"encoding/json"

	"github.com/ha1tch/gasplan/pkg/plan"
)

// ParseJSON parses a document from JSON.
func ParseJSON(data []byte, opts ...plan.Option) (*plan.Document, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return FromRecord(r, opts...)
}

// ToJSON converts a document to JSON.
func ToJSON(d *plan.Document, pretty bool) ([]byte, error) {
	r := ToRecord(d)
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}
