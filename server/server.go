package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	_ "google.golang.org/grpc/encoding/gzip" // Install the gzip compressor

	"github.com/iptecharch/cliconf-server/cache"
	"github.com/iptecharch/cliconf-server/config"
	"github.com/iptecharch/cliconf-server/datastore"
)

// number of devices brought up concurrently at startup
const datastoreInitLimit = 10

type Server struct {
	config *config.Config

	cfn context.CancelFunc

	md         *sync.RWMutex
	datastores map[string]*datastore.Datastore // one session per device

	cache cache.Client

	srv *grpc.Server
	gnmi.UnimplementedGNMIServer

	router *mux.Router
	reg    *prometheus.Registry
}

func NewServer(c *config.Config) (*Server, error) {
	ctx, cancel := context.WithCancel(context.TODO())
	var s = &Server{
		config: c,
		cfn:    cancel,

		md:         &sync.RWMutex{},
		datastores: make(map[string]*datastore.Datastore, len(c.Devices)),

		cache: cache.New(c.Cache.TTL),

		router: mux.NewRouter(),
		reg:    prometheus.NewRegistry(),
	}

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(c.GRPCServer.MaxRecvMsgSize),
	}

	unaryInterceptors := []grpc.UnaryServerInterceptor{
		func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
			ctx, cfn := context.WithTimeout(ctx, c.GRPCServer.RPCTimeout)
			defer cfn()
			return handler(ctx, req)
		},
	}

	if c.Prometheus != nil {
		grpcMetrics := grpc_prometheus.NewServerMetrics()
		opts = append(opts,
			grpc.StreamInterceptor(grpcMetrics.StreamServerInterceptor()),
		)
		unaryInterceptors = append(unaryInterceptors, grpcMetrics.UnaryServerInterceptor())
		s.reg.MustRegister(grpcMetrics)
	}
	opts = append(opts, grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(unaryInterceptors...)))
	if c.GRPCServer.TLS != nil {
		tlsCfg, err := c.GRPCServer.TLS.NewConfig(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(credentials.NewTLS(tlsCfg)))
	}
	s.srv = grpc.NewServer(opts...)
	gnmi.RegisterGNMIServer(s.srv, s)
	return s, nil
}

func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.config.GRPCServer.Address)
	if err != nil {
		return err
	}
	log.Infof("running server on %s", s.config.GRPCServer.Address)
	if s.config.Prometheus != nil {
		go s.ServeHTTP()
	}
	go s.createDatastores(ctx)
	err = s.srv.Serve(l)
	if err != nil {
		return err
	}

	return nil
}

func (s *Server) ServeHTTP() {
	s.router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	s.reg.MustRegister(collectors.NewGoCollector())
	s.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := &http.Server{
		Addr:         s.config.Prometheus.Address,
		Handler:      s.router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	err := srv.ListenAndServe()
	if err != nil {
		log.Errorf("HTTP server stopped: %v", err)
	}
}

func (s *Server) Stop() {
	s.srv.Stop()
	s.md.RLock()
	defer s.md.RUnlock()
	for _, ds := range s.datastores {
		ds.Stop()
	}
	s.cfn()
}

// createDatastores connects the configured devices, at most
// datastoreInitLimit of them dialing at a time. Devices become visible to the
// gNMI handlers as their sessions come up; it returns once all of them are
// registered.
func (s *Server) createDatastores(ctx context.Context) {
	sem := semaphore.NewWeighted(datastoreInitLimit)
	for _, devCfg := range s.config.Devices {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Errorf("datastore init interrupted: %v", err)
			return
		}
		go func(devCfg *config.DeviceConfig) {
			defer sem.Release(1)
			ds := datastore.New(devCfg, s.cache)
			s.md.Lock()
			s.datastores[devCfg.Name] = ds
			s.md.Unlock()
		}(devCfg)
	}
	if err := sem.Acquire(ctx, datastoreInitLimit); err != nil {
		return
	}
	sem.Release(datastoreInitLimit)
}
