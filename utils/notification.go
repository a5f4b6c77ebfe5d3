package utils

import (
	"time"

	"github.com/openconfig/gnmi/proto/gnmi"
)

// Path builds a keyless gNMI path from element names, skipping empty ones.
func Path(elem ...string) *gnmi.Path {
	pes := make([]*gnmi.PathElem, 0, len(elem))
	for _, e := range elem {
		if e == "" {
			continue
		}
		pes = append(pes, &gnmi.PathElem{Name: e})
	}
	return &gnmi.Path{Elem: pes}
}

// TargetPrefix returns a prefix path addressing the given device.
func TargetPrefix(target string) *gnmi.Path {
	return &gnmi.Path{Target: target}
}

// Notification wraps a single update for path carrying val, stamped with the
// current time.
func Notification(prefix, path *gnmi.Path, val *gnmi.TypedValue) *gnmi.Notification {
	return &gnmi.Notification{
		Timestamp: time.Now().UnixNano(),
		Prefix:    prefix,
		Update: []*gnmi.Update{
			{Path: path, Val: val},
		},
	}
}
