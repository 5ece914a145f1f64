package frame

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// KeyVal is one entry of an OrderedMap.
type KeyVal struct {
	Key string
	Val interface{}
}

// OrderedMap represents a map that preserves insertion order.
// Struct cells and struct-shaped callback results use it so field order is stable.
type OrderedMap []KeyVal

// MarshalJSON implements the json.Marshaler interface.
func (om OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range om {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(kv.Val)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface, keeping the document's key order.
func (om *OrderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := DecodeJSONValue(dec)
	if err != nil {
		return err
	}
	m, ok := v.(OrderedMap)
	if !ok {
		return errors.Errorf("expected JSON object, got %T", v)
	}
	*om = m
	return nil
}

// Get returns the value for a key (O(N) lookup, but explicit for small structs)
func (om OrderedMap) Get(key string) (interface{}, bool) {
	for _, kv := range om {
		if kv.Key == key {
			return kv.Val, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (om OrderedMap) Keys() []string {
	keys := make([]string, len(om))
	for i, kv := range om {
		keys[i] = kv.Key
	}
	return keys
}

// ToMap converts to a standard map (losing order)
func (om OrderedMap) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(om))
	for _, kv := range om {
		m[kv.Key] = kv.Val
	}
	return m
}

// FromMap creates an OrderedMap from a standard map with keys sorted,
// so that two maps with the same keys always produce the same field order.
func FromMap(m map[string]interface{}) OrderedMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	om := make(OrderedMap, 0, len(m))
	for _, k := range keys {
		om = append(om, KeyVal{Key: k, Val: m[k]})
	}
	return om
}

// String implements fmt.Stringer
func (om OrderedMap) String() string {
	b, _ := om.MarshalJSON()
	return string(b)
}

// DecodeJSONValue reads the next JSON value from dec. Objects become OrderedMap,
// arrays []interface{}, and numbers int64 when integral or float64 otherwise.
// dec should have UseNumber enabled.
func DecodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return DecodeJSONToken(tok, dec)
}

// DecodeJSONToken decodes the value that starts with tok, reading the rest from dec.
func DecodeJSONToken(tok json.Token, dec *json.Decoder) (interface{}, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			om := OrderedMap{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.Errorf("expected object key, got %v", keyTok)
				}
				val, err := DecodeJSONValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				om = append(om, KeyVal{Key: key, Val: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return om, nil
		case '[':
			arr := []interface{}{}
			for dec.More() {
				val, err := DecodeJSONValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return arr, nil
		default:
			return nil, errors.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		return numberValue(t), nil
	case float64:
		return t, nil
	case string, bool, nil:
		return t, nil
	default:
		return nil, errors.Errorf("unexpected JSON token %v", tok)
	}
}

// unexpectedEOF reports an input that ends inside a value
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func numberValue(n json.Number) interface{} {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

