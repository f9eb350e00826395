package planfile

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ha1tch/gasplan/pkg/plan"
)

// ParseMsgpack parses a document from MessagePack.
func ParseMsgpack(data []byte, opts ...plan.Option) (*plan.Document, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return FromRecord(r, opts...)
}

// ToMsgpack converts a document to MessagePack.
func ToMsgpack(d *plan.Document) ([]byte, error) {
	return msgpack.Marshal(ToRecord(d))
}
