package planfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// ParseSegments reads an import segment list. Two shapes are accepted:
//
//	[{"p1": {"x": 0, "y": 0}, "p2": {"x": 10, "y": 0}}, ...]
//	[[x1, y1, x2, y2], ...]
func ParseSegments(data []byte) ([]plan.Segment, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("segment list: %w", err)
	}
	segs := make([]plan.Segment, 0, len(raw))
	for i, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if len(msg) > 0 && msg[0] == '[' {
			var t []float64
			if err := json.Unmarshal(msg, &t); err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			if len(t) != 4 {
				return nil, fmt.Errorf("segment %d: want 4 coordinates, got %d", i, len(t))
			}
			segs = append(segs, plan.Segment{P1: geom.Pt(t[0], t[1]), P2: geom.Pt(t[2], t[3])})
			continue
		}
		var s plan.Segment
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segs = append(segs, s)
	}
	return segs, nil
}

// ReadSegmentsFile reads a segment list from a JSON file.
func ReadSegmentsFile(path string) ([]plan.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSegments(data)
}
