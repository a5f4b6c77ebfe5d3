package datastore

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iptecharch/cliconf-server/cache"
	"github.com/iptecharch/cliconf-server/cliconf"
	"github.com/iptecharch/cliconf-server/config"
	"github.com/iptecharch/cliconf-server/datastore/target"
)

const (
	Running = "running"
	Startup = "startup"
)

// Datastore owns the session towards one device: the southbound command
// channel, the dialect engine and the last-known-config cache.
type Datastore struct {
	// device config
	config *config.DeviceConfig

	m       *sync.RWMutex
	conn    cliconf.Conn
	session cliconf.Cliconf

	// last known configs per source
	cache cache.Client

	// stop cancel func
	cfn context.CancelFunc
}

// New creates a datastore and blocks until its southbound connection is
// established or the datastore is stopped. An unknown dialect gives up
// immediately, an unreachable device keeps retrying.
func New(c *config.DeviceConfig, cc cache.Client) *Datastore {
	ds := &Datastore{
		config: c,
		m:      &sync.RWMutex{},
		cache:  cc,
	}
	ctx, cancel := context.WithCancel(context.TODO())
	ds.cfn = cancel

	ds.connectSBI(ctx)

	if c.Sync != nil {
		go ds.Sync(ctx)
	}
	return ds
}

func (d *Datastore) connectSBI(ctx context.Context) {
	ticker := time.NewTicker(d.config.SBI.ConnectRetry)
	defer ticker.Stop()
	for {
		conn, err := target.New(ctx, d.config.Name, d.config.SBI)
		if err != nil {
			log.Errorf("failed to create datastore %s target: %v", d.config.Name, err)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			continue
		}
		session, err := cliconf.New(d.config.NetworkOS, conn)
		if err != nil {
			// an unknown network OS does not resolve by retrying
			log.Errorf("failed to create datastore %s session: %v", d.config.Name, err)
			conn.Close()
			return
		}
		d.m.Lock()
		d.conn = conn
		d.session = session
		d.m.Unlock()
		return
	}
}

func (d *Datastore) Name() string {
	return d.config.Name
}

func (d *Datastore) NetworkOS() string {
	return d.config.NetworkOS
}

func (d *Datastore) Config() *config.DeviceConfig {
	return d.config
}

// Connected reports whether the southbound session is established.
func (d *Datastore) Connected() bool {
	d.m.RLock()
	defer d.m.RUnlock()
	return d.session != nil
}

func (d *Datastore) dialect() (cliconf.Cliconf, error) {
	d.m.RLock()
	defer d.m.RUnlock()
	if d.session == nil {
		return nil, fmt.Errorf("datastore %s is not connected", d.config.Name)
	}
	return d.session, nil
}

// GetConfig returns the device configuration text for the given source,
// served from the cache when a fresh entry exists unless nocache is set.
func (d *Datastore) GetConfig(ctx context.Context, source string, nocache bool) (string, error) {
	if source == "" {
		source = Running
	}
	if !nocache {
		if cfg, ok := d.cache.Get(ctx, d.config.Name, source); ok {
			log.Debugf("datastore %s: %s config served from cache", d.config.Name, source)
			return cfg, nil
		}
	}
	session, err := d.dialect()
	if err != nil {
		return "", err
	}
	out, err := session.GetConfig(ctx, &cliconf.GetConfigRequest{Source: source})
	if err != nil {
		return "", err
	}
	d.cache.Put(ctx, d.config.Name, source, out)
	return out, nil
}

// GetDiff computes the command set that would reconcile the device towards
// the candidate. When the request carries no running config, the current
// running config is fetched (cache-aware) and diffed against.
func (d *Datastore) GetDiff(ctx context.Context, req *cliconf.DiffRequest) (*cliconf.DiffResponse, error) {
	session, err := d.dialect()
	if err != nil {
		return nil, err
	}
	if req != nil && req.Candidate != "" && req.Running == "" && req.Match != cliconf.MatchNone {
		running, err := d.GetConfig(ctx, Running, false)
		if err != nil {
			return nil, err
		}
		reqCopy := *req
		reqCopy.Running = running
		req = &reqCopy
	}
	return session.GetDiff(ctx, req)
}

// EditConfig applies staged commands through the dialect state machine. A
// committed change invalidates the device's cached configs.
func (d *Datastore) EditConfig(ctx context.Context, req *cliconf.EditConfigRequest) (*cliconf.EditConfigResponse, error) {
	session, err := d.dialect()
	if err != nil {
		return nil, err
	}
	resp, err := session.EditConfig(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Committed {
		d.cache.Invalidate(ctx, d.config.Name)
	}
	return resp, nil
}

func (d *Datastore) EditBanner(ctx context.Context, req *cliconf.EditBannerRequest) (*cliconf.EditBannerResponse, error) {
	session, err := d.dialect()
	if err != nil {
		return nil, err
	}
	resp, err := session.EditBanner(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Commit {
		d.cache.Invalidate(ctx, d.config.Name)
	}
	return resp, nil
}

func (d *Datastore) Run(ctx context.Context, cmd *cliconf.Command) (string, error) {
	session, err := d.dialect()
	if err != nil {
		return "", err
	}
	return session.Run(ctx, cmd)
}

func (d *Datastore) DeviceInfo(ctx context.Context) (*cliconf.DeviceInfo, error) {
	session, err := d.dialect()
	if err != nil {
		return nil, err
	}
	return session.GetDeviceInfo(ctx)
}

func (d *Datastore) Capabilities(ctx context.Context) (*cliconf.Capabilities, error) {
	session, err := d.dialect()
	if err != nil {
		return nil, err
	}
	return session.GetCapabilities(ctx)
}

// Sync periodically refreshes the running config into the cache.
func (d *Datastore) Sync(ctx context.Context) {
	log.Infof("starting datastore %s sync", d.config.Name)
	ticker := time.NewTicker(d.config.Sync.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Infof("datastore %s sync stopped: %v", d.config.Name, ctx.Err())
			return
		case <-ticker.C:
			if _, err := d.GetConfig(ctx, Running, true); err != nil {
				log.Errorf("datastore %s sync failed: %v", d.config.Name, err)
			}
		}
	}
}

func (d *Datastore) Stop() {
	d.cfn()
	d.m.Lock()
	defer d.m.Unlock()
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Errorf("failed to close datastore %s connection: %v", d.config.Name, err)
		}
		d.conn = nil
		d.session = nil
	}
}
