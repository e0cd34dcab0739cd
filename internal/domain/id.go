package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NodeID identifies a node. It is either numeric (encoded as a JSON number)
// or an opaque string. IntID(1) and StringID("1") are different identifiers.
type NodeID struct {
	raw     string
	numeric bool
}

// IntID creates a numeric node identifier
func IntID(n int64) NodeID {
	return NodeID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// StringID creates an opaque string node identifier
func StringID(s string) NodeID {
	return NodeID{raw: s}
}

// ParseID interprets text the way a loosely typed source (a config value,
// a URL path segment) would: integer text becomes a numeric ID, anything
// else a string ID.
func ParseID(text string) NodeID {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntID(n)
	}
	return StringID(text)
}

// NumberID creates a numeric identifier from the literal text of a number.
// Numbers compare by value: 1, 1.0 and 1e0 are the same identifier.
func NumberID(text string) (NodeID, error) {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntID(n), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return NodeID{}, fmt.Errorf("invalid numeric node id %q", text)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return IntID(int64(f)), nil
	}
	return NodeID{raw: strconv.FormatFloat(f, 'g', -1, 64), numeric: true}, nil
}

// IsZero reports whether the identifier is unset
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// IsNumeric reports whether the identifier is a number
func (id NodeID) IsNumeric() bool {
	return id.numeric
}

// Int returns the integer value of a numeric identifier
func (id NodeID) Int() (int64, bool) {
	if !id.numeric {
		return 0, false
	}
	n, err := strconv.ParseInt(id.raw, 10, 64)
	return n, err == nil
}

// String returns the identifier text
func (id NodeID) String() string {
	return id.raw
}

// MarshalJSON encodes numeric identifiers as numbers and the rest as strings
func (id NodeID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (id *NodeID) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch {
	case text == "null":
		return fmt.Errorf("node id cannot be null")
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid node id: %w", err)
		}
		*id = StringID(s)
		return nil
	default:
		parsed, err := NumberID(text)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
}
