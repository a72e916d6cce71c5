package attr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MarshalJSON encodes v keeping map key order. Non-finite floats encode as
// null. Strings are not HTML-escaped; json.Marshal callers still get escaping
// from the standard encoder.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindString:
		return appendString(buf, v.str)
	case KindInt:
		buf.Write(strconv.AppendInt(nil, v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBool:
		buf.Write(strconv.AppendBool(nil, v.b))
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		if v.m != nil {
			first := true
			for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
				if !first {
					buf.WriteByte(',')
				}
				first = false
				if err := appendString(buf, pair.Key); err != nil {
					return err
				}
				buf.WriteByte(':')
				if err := pair.Value.appendJSON(buf); err != nil {
					return err
				}
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

func appendString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON decodes JSON into v keeping object key order. Numbers without
// a fraction or exponent decode as ints when they fit in 64 bits.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("attr: empty JSON input")
	}
	switch data[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if items == nil {
			items = []Value{}
		}
		*v = Value{kind: KindList, list: items}
	case '{':
		m := orderedmap.New[string, Value]()
		if err := m.UnmarshalJSON(data); err != nil {
			return err
		}
		*v = Value{kind: KindMap, m: m}
	default:
		raw := string(data)
		if !bytes.ContainsAny(data, ".eE") {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				*v = Int(i)
				return nil
			}
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("attr: invalid JSON number %q: %w", raw, err)
		}
		*v = Float(f)
	}
	return nil
}
