// Wrap json library to control encoding.

package json

import (
	"time"

	"github.com/Velocidex/json"
	"github.com/Velocidex/ordereddict"
)

func MarshalJSONDict(v interface{}, opts *json.EncOpts) ([]byte, error) {
	self, ok := v.(*ordereddict.Dict)
	if !ok || self == nil {
		return nil, json.EncoderCallbackSkip
	}

	result := "{"
	for _, k := range self.Keys() {

		// add key
		kEscaped, err := json.MarshalWithOptions(k, opts)
		if err != nil {
			continue
		}

		result += string(kEscaped) + ":"

		// add value
		v, ok := self.Get(k)
		if !ok {
			v = "null"
		}

		vBytes, err := json.MarshalWithOptions(v, opts)
		if err == nil {
			result += string(vBytes) + ","
		} else {
			result += "null,"
		}
	}
	if len(self.Keys()) > 0 {
		result = result[0 : len(result)-1]
	}
	result = result + "}"
	return []byte(result), nil
}

// Take care of marshaling all timestamps in UTC
func MarshalTimes(v interface{}, opts *json.EncOpts) ([]byte, error) {
	switch t := v.(type) {
	case time.Time:
		// Marshal the time in the desired timezone.
		return t.UTC().MarshalJSON()

	case *time.Time:
		if t == nil {
			return []byte("null"), nil
		}
		return t.UTC().MarshalJSON()

	}
	return nil, json.EncoderCallbackSkip
}

func init() {
	RegisterCustomEncoder(ordereddict.NewDict(), MarshalJSONDict)
	RegisterCustomEncoder(time.Time{}, MarshalTimes)
	RegisterCustomEncoder(&time.Time{}, MarshalTimes)
}
