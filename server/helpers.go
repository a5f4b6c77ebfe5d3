package server

import (
	"github.com/openconfig/gnmi/proto/gnmi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iptecharch/cliconf-server/datastore"
)

// path elements to strings, no keys
func PathToStrings(p *gnmi.Path) []string {
	numElem := len(p.GetElem())
	if numElem == 0 {
		return nil
	}
	rs := make([]string, 0, numElem)
	for _, pe := range p.GetElem() {
		rs = append(rs, pe.GetName())
	}
	return rs
}

// datastore resolves the device a request addresses through the prefix
// target.
func (s *Server) datastore(prefix *gnmi.Path) (*datastore.Datastore, error) {
	target := prefix.GetTarget()
	if target == "" {
		return nil, status.Error(codes.InvalidArgument, "missing target in prefix")
	}
	s.md.RLock()
	defer s.md.RUnlock()
	ds, ok := s.datastores[target]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown target %s", target)
	}
	return ds, nil
}
