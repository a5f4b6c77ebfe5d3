package utils

import (
	"encoding/json"
	"fmt"

	"github.com/openconfig/gnmi/proto/gnmi"
)

// AsciiVal wraps a configuration payload in a gNMI TypedValue.
func AsciiVal(s string) *gnmi.TypedValue {
	return &gnmi.TypedValue{
		Value: &gnmi.TypedValue_AsciiVal{AsciiVal: s},
	}
}

// JSONVal marshals v into a JSON TypedValue.
func JSONVal(v any) (*gnmi.TypedValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &gnmi.TypedValue{
		Value: &gnmi.TypedValue_JsonVal{JsonVal: b},
	}, nil
}

// ConfigText extracts configuration text from a TypedValue. ASCII is the
// native encoding, string and JSON string values are accepted for clients
// that cannot emit ASCII values.
func ConfigText(tv *gnmi.TypedValue) (string, error) {
	switch tv.GetValue().(type) {
	case *gnmi.TypedValue_AsciiVal:
		return tv.GetAsciiVal(), nil
	case *gnmi.TypedValue_StringVal:
		return tv.GetStringVal(), nil
	case *gnmi.TypedValue_JsonVal, *gnmi.TypedValue_JsonIetfVal:
		jsondata := tv.GetJsonVal()
		if len(jsondata) == 0 {
			jsondata = tv.GetJsonIetfVal()
		}
		var s string
		if err := json.Unmarshal(jsondata, &s); err != nil {
			return "", fmt.Errorf("configuration value must be a JSON string: %v", err)
		}
		return s, nil
	case nil:
		return "", fmt.Errorf("missing configuration value")
	default:
		return "", fmt.Errorf("unsupported configuration value type %T", tv.GetValue())
	}
}

