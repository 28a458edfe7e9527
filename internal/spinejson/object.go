package spinejson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// object is a JSON object that keeps its members in file order.
type object []member

type member struct {
	Key   string
	Value json.RawMessage
}

func (o *object) UnmarshalJSON(data []byte) error {
	*o = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		*o = append(*o, member{Key: key, Value: v})
	}
	_, err = dec.Token()
	return err
}

// each decodes every member value into a fresh T and calls fn in order.
func each[T any](o object, fn func(key string, v T) error) error {
	for _, m := range o {
		var v T
		if err := json.Unmarshal(m.Value, &v); err != nil {
			return fmt.Errorf("%q: %w", m.Key, err)
		}
		if err := fn(m.Key, v); err != nil {
			return err
		}
	}
	return nil
}
