package utils

import (
	"encoding/json"
	"fmt"

	"github.com/openconfig/gnmi/proto/gnmi_ext"
)

// RequestOptions is the JSON payload carried in an EID_EXPERIMENTAL
// registered extension. It transports the request knobs that have no place in
// the gNMI message itself.
type RequestOptions struct {
	// Candidate carries the configuration to compare against the device in
	// get requests addressing the diff path.
	Candidate string `json:"candidate,omitempty"`
	// Commit defaults to true. A false value stages the change without
	// committing where the platform has a candidate store and sends nothing
	// elsewhere.
	Commit      *bool    `json:"commit,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	Match       string   `json:"match,omitempty"`
	Replace     string   `json:"replace,omitempty"`
	IgnoreLines []string `json:"ignore_lines,omitempty"`
	// MultilineDelimiter wraps banner bodies on devices that load them
	// through a sentinel, defaults to "@".
	MultilineDelimiter string `json:"multiline_delimiter,omitempty"`
	// NoCache forces a device read even when a cached configuration is
	// still fresh.
	NoCache bool `json:"no_cache,omitempty"`
}

// JSONExtension encodes v as a JSON payload in a registered experimental
// extension.
func JSONExtension(v any) (*gnmi_ext.Extension, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &gnmi_ext.Extension{
		Ext: &gnmi_ext.Extension_RegisteredExt{
			RegisteredExt: &gnmi_ext.RegisteredExtension{
				Id:  gnmi_ext.ExtensionID_EID_EXPERIMENTAL,
				Msg: b,
			},
		},
	}, nil
}

// OptionsFromExtensions decodes the first experimental registered extension
// into RequestOptions. Requests without one get the zero options.
func OptionsFromExtensions(exts []*gnmi_ext.Extension) (*RequestOptions, error) {
	opts := &RequestOptions{}
	for _, ext := range exts {
		re := ext.GetRegisteredExt()
		if re == nil || re.GetId() != gnmi_ext.ExtensionID_EID_EXPERIMENTAL {
			continue
		}
		if err := json.Unmarshal(re.GetMsg(), opts); err != nil {
			return nil, fmt.Errorf("malformed request options: %v", err)
		}
		break
	}
	return opts, nil
}
