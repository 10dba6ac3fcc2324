package jval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var errTrailingData = errors.New("trailing data after JSON value")

// Parse decodes a single JSON value, preserving object key order. Input with
// anything but whitespace after the value is rejected.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := Decode(dec)
	if err != nil {
		return Null, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Null, errTrailingData
	}
	return v, nil
}

// MustParse is Parse for statically known inputs, mainly tests. It panics on
// invalid JSON.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(fmt.Sprintf("jval.MustParse(%q): %v", s, err))
	}
	return v
}

// Decode reads the next complete JSON value from dec. The decoder should have
// UseNumber set; Decode tolerates one that does not by re-wrapping floats,
// but literal fidelity is then lost.
func Decode(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	return fromToken(dec, tok)
}

func fromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case float64:
		return Float64Value(t), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Null, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		return Null, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Null, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Null, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := Decode(dec)
		if err != nil {
			return Null, err
		}
		// Duplicate keys: the last value wins, the first position is kept.
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Null, err
	}
	return ObjectValue(obj), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		val, err := Decode(dec)
		if err != nil {
			return Null, err
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Null, err
	}
	return ArrayValue(items), nil
}
