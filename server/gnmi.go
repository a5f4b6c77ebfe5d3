package server

import (
	"context"
	"sort"
	"time"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/gnmi/proto/gnmi_ext"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/iptecharch/cliconf-server/cliconf"
	"github.com/iptecharch/cliconf-server/datastore"
	"github.com/iptecharch/cliconf-server/utils"
)

const gnmiVersion = "0.7.0"

// paths a device exposes, selected by the first path element
const (
	pathRunning      = "running"
	pathStartup      = "startup"
	pathDeviceInfo   = "device-info"
	pathCapabilities = "capabilities"
	pathDiff         = "diff"
)

func (s *Server) Capabilities(ctx context.Context, req *gnmi.CapabilityRequest) (*gnmi.CapabilityResponse, error) {
	log.Debugf("received CapabilityRequest: %v", req)
	s.md.RLock()
	defer s.md.RUnlock()
	names := make([]string, 0, len(s.datastores))
	for name := range s.datastores {
		names = append(names, name)
	}
	sort.Strings(names)
	models := make([]*gnmi.ModelData, 0, len(names))
	for _, name := range names {
		models = append(models, &gnmi.ModelData{
			Name:         name,
			Organization: "cliconf",
			Version:      s.datastores[name].NetworkOS(),
		})
	}
	return &gnmi.CapabilityResponse{
		SupportedModels:    models,
		SupportedEncodings: []gnmi.Encoding{gnmi.Encoding_ASCII, gnmi.Encoding_JSON},
		GNMIVersion:        gnmiVersion,
	}, nil
}

func (s *Server) Get(ctx context.Context, req *gnmi.GetRequest) (*gnmi.GetResponse, error) {
	pr, _ := peer.FromContext(ctx)
	log.Debugf("received GetRequest %v from peer %s", req, pr.Addr.String())
	opts, err := utils.OptionsFromExtensions(req.GetExtension())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	ds, err := s.datastore(req.GetPrefix())
	if err != nil {
		return nil, err
	}
	paths := req.GetPath()
	if len(paths) == 0 {
		paths = []*gnmi.Path{utils.Path(pathRunning)}
	}
	notifications := make([]*gnmi.Notification, 0, len(paths))
	for _, p := range paths {
		n, err := s.pathNotification(ctx, ds, req.GetPrefix(), p, opts)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return &gnmi.GetResponse{Notification: notifications}, nil
}

// pathNotification serves a single requested path from the device session.
func (s *Server) pathNotification(ctx context.Context, ds *datastore.Datastore, prefix, p *gnmi.Path, opts *utils.RequestOptions) (*gnmi.Notification, error) {
	elems := PathToStrings(p)
	first := ""
	if len(elems) > 0 {
		first = elems[0]
	}
	switch first {
	case "", pathRunning, pathStartup:
		source := datastore.Running
		if first == pathStartup {
			source = datastore.Startup
		}
		cfg, err := ds.GetConfig(ctx, source, opts.NoCache)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		return utils.Notification(prefix, p, utils.AsciiVal(cfg)), nil
	case pathDeviceInfo:
		info, err := ds.DeviceInfo(ctx)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		val, err := utils.JSONVal(info)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		return utils.Notification(prefix, p, val), nil
	case pathCapabilities:
		caps, err := ds.Capabilities(ctx)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		val, err := utils.JSONVal(caps)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		return utils.Notification(prefix, p, val), nil
	case pathDiff:
		if opts.Candidate == "" {
			return nil, status.Error(codes.InvalidArgument, "diff requires a candidate config in the request options")
		}
		diff, err := ds.GetDiff(ctx, &cliconf.DiffRequest{
			Candidate:   opts.Candidate,
			Match:       opts.Match,
			Replace:     opts.Replace,
			Path:        elems[1:],
			IgnoreLines: opts.IgnoreLines,
		})
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		val, err := utils.JSONVal(diff)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		return utils.Notification(prefix, p, val), nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown path element %q", first)
	}
}

func (s *Server) Set(ctx context.Context, req *gnmi.SetRequest) (*gnmi.SetResponse, error) {
	log.Debugf("received SetRequest: %v", req)
	opts, err := utils.OptionsFromExtensions(req.GetExtension())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	ds, err := s.datastore(req.GetPrefix())
	if err != nil {
		return nil, err
	}
	if len(req.GetDelete()) != 0 {
		return nil, status.Error(codes.Unimplemented, "delete is not supported, load a replace config instead")
	}
	numUpdates := len(req.GetUpdate()) + len(req.GetReplace())
	if numUpdates == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing updates in request")
	}
	commit := true
	if opts.Commit != nil {
		commit = *opts.Commit
	}

	results := make([]*gnmi.UpdateResult, 0, numUpdates)
	exts := make([]*gnmi_ext.Extension, 0, numUpdates)
	for _, upd := range req.GetUpdate() {
		editResp, err := s.applyUpdate(ctx, ds, upd, opts, commit, false)
		if err != nil {
			return nil, err
		}
		results = append(results, &gnmi.UpdateResult{
			Path: upd.GetPath(),
			Op:   gnmi.UpdateResult_UPDATE,
		})
		ext, err := utils.JSONExtension(editResp)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		exts = append(exts, ext)
	}
	for _, upd := range req.GetReplace() {
		editResp, err := s.applyUpdate(ctx, ds, upd, opts, commit, true)
		if err != nil {
			return nil, err
		}
		results = append(results, &gnmi.UpdateResult{
			Path: upd.GetPath(),
			Op:   gnmi.UpdateResult_REPLACE,
		})
		ext, err := utils.JSONExtension(editResp)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		exts = append(exts, ext)
	}
	return &gnmi.SetResponse{
		Prefix:    req.GetPrefix(),
		Response:  results,
		Timestamp: time.Now().UnixNano(),
		Extension: exts,
	}, nil
}

// applyUpdate reconciles one candidate config against the device and stages
// the resulting change set. A replace loads the full candidate without
// diffing it against the running config first.
func (s *Server) applyUpdate(ctx context.Context, ds *datastore.Datastore, upd *gnmi.Update, opts *utils.RequestOptions, commit, replace bool) (*cliconf.EditConfigResponse, error) {
	candidate, err := utils.ConfigText(upd.GetVal())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	diffReq := &cliconf.DiffRequest{
		Candidate:   candidate,
		Match:       opts.Match,
		Replace:     opts.Replace,
		IgnoreLines: opts.IgnoreLines,
	}
	if replace {
		diffReq.Match = cliconf.MatchNone
		diffReq.Replace = ""
		diffReq.IgnoreLines = nil
	}
	diff, err := ds.GetDiff(ctx, diffReq)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	resp := &cliconf.EditConfigResponse{Response: []string{}}
	if len(diff.Commands) > 0 {
		cmds := make([]*cliconf.Command, 0, len(diff.Commands))
		for _, c := range diff.Commands {
			cmds = append(cmds, &cliconf.Command{Input: c})
		}
		resp, err = ds.EditConfig(ctx, &cliconf.EditConfigRequest{
			Candidate: cmds,
			Commit:    commit,
			Comment:   opts.Comment,
		})
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
	}
	if len(diff.BannerDiff) > 0 {
		bresp, err := ds.EditBanner(ctx, &cliconf.EditBannerRequest{
			Candidate:          diff.BannerDiff,
			MultilineDelimiter: opts.MultilineDelimiter,
			Commit:             commit,
		})
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		resp.Response = append(resp.Response, bresp.Response...)
	}
	return resp, nil
}

func (s *Server) Subscribe(stream gnmi.GNMI_SubscribeServer) error {
	req, err := stream.Recv()
	if err != nil {
		return err
	}
	log.Debugf("received SubscribeRequest: %v", req)
	sl := req.GetSubscribe()
	if sl == nil {
		return status.Error(codes.InvalidArgument, "first message must contain a subscription list")
	}
	if sl.GetMode() != gnmi.SubscriptionList_ONCE {
		return status.Error(codes.Unimplemented, "only ONCE subscriptions are supported")
	}
	if len(sl.GetSubscription()) == 0 {
		return status.Error(codes.InvalidArgument, "missing subscriptions in request")
	}
	ds, err := s.datastore(sl.GetPrefix())
	if err != nil {
		return err
	}
	opts := &utils.RequestOptions{}
	for _, sub := range sl.GetSubscription() {
		n, err := s.pathNotification(stream.Context(), ds, sl.GetPrefix(), sub.GetPath(), opts)
		if err != nil {
			return err
		}
		err = stream.Send(&gnmi.SubscribeResponse{
			Response: &gnmi.SubscribeResponse_Update{Update: n},
		})
		if err != nil {
			return err
		}
	}
	return stream.Send(&gnmi.SubscribeResponse{
		Response: &gnmi.SubscribeResponse_SyncResponse{SyncResponse: true},
	})
}
