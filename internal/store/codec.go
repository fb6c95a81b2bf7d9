package store

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ValueCodec turns variable values into the blob stored in the value column.
type ValueCodec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}

// JSONCodec stores values as JSON together with a type tag. Scalars come back
// with the Go type they were stored with: int stays int, int64 keeps all of
// its digits and []byte stays []byte. Any other value is decoded into
// map[string]any and []any, with integral numbers as int64.
//
// Blobs without a tag are read as plain JSON.
type JSONCodec struct{}

type taggedValue struct {
	Type  string          `json:"t"`
	Value json.RawMessage `json:"v"`
}

const (
	tagNull  = "null"
	tagBytes = "bytes"
	tagTime  = "time"
	tagJSON  = "json"
)

func (JSONCodec) Encode(v any) ([]byte, error) {
	tag := typeTag(v)
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedValue{Type: tag, Value: raw})
}

func (JSONCodec) Decode(b []byte) (any, error) {
	if len(b) == 0 {
		return nil, nil
	}

	var tv taggedValue
	if err := json.Unmarshal(b, &tv); err != nil || tv.Type == "" {
		return decodeUntyped(b)
	}

	switch tv.Type {
	case tagNull:
		return nil, nil
	case "bool":
		return decodeAs[bool](tv.Value)
	case "string":
		return decodeAs[string](tv.Value)
	case "int":
		return decodeAs[int](tv.Value)
	case "int8":
		return decodeAs[int8](tv.Value)
	case "int16":
		return decodeAs[int16](tv.Value)
	case "int32":
		return decodeAs[int32](tv.Value)
	case "int64":
		return decodeAs[int64](tv.Value)
	case "uint":
		return decodeAs[uint](tv.Value)
	case "uint8":
		return decodeAs[uint8](tv.Value)
	case "uint16":
		return decodeAs[uint16](tv.Value)
	case "uint32":
		return decodeAs[uint32](tv.Value)
	case "uint64":
		return decodeAs[uint64](tv.Value)
	case "float32":
		return decodeAs[float32](tv.Value)
	case "float64":
		return decodeAs[float64](tv.Value)
	case tagBytes:
		return decodeAs[[]byte](tv.Value)
	case tagTime:
		return decodeAs[time.Time](tv.Value)
	case tagJSON:
		return decodeUntyped(tv.Value)
	default:
		return nil, fmt.Errorf("unknown value type %q", tv.Type)
	}
}

func typeTag(v any) string {
	switch v.(type) {
	case nil:
		return tagNull
	case bool:
		return "bool"
	case string:
		return "string"
	case int:
		return "int"
	case int8:
		return "int8"
	case int16:
		return "int16"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case uint:
		return "uint"
	case uint8:
		return "uint8"
	case uint16:
		return "uint16"
	case uint32:
		return "uint32"
	case uint64:
		return "uint64"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case []byte:
		return tagBytes
	case time.Time:
		return tagTime
	default:
		return tagJSON
	}
}

func decodeAs[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeUntyped(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeNumbers(v), nil
}

// normalizeNumbers replaces json.Number by int64 when the number is integral
// and by float64 otherwise.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	default:
		return v
	}
}
