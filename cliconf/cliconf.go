package cliconf

import (
	"context"
	"fmt"

	"github.com/iptecharch/cliconf-server/cliconf/netconfig"
)

// Network OS values with a dialect implementation.
const (
	OSIOS  = "ios"
	OSVyOS = "vyos"
)

// Diff behavior values accepted in DiffRequest.Match and DiffRequest.Replace,
// re-exported for callers that do not use the engine directly.
const (
	MatchLine   = netconfig.MatchLine
	MatchStrict = netconfig.MatchStrict
	MatchExact  = netconfig.MatchExact
	MatchNone   = netconfig.MatchNone

	ReplaceLine  = netconfig.ReplaceLine
	ReplaceBlock = netconfig.ReplaceBlock
)

// Command is a single instruction for the device command channel.
type Command struct {
	Input    string
	Prompt   string // optional regexp source the device is expected to print
	Answer   string // reply to send once Prompt is seen
	SendOnly bool   // write without collecting a response
}

// Conn is the transport a dialect drives: one synchronous command at a time,
// no internal retries, no pipelining.
type Conn interface {
	Send(ctx context.Context, cmd *Command) (string, error)
	Close() error
}

// Cliconf is a configuration session to a single device. Implementations are
// not safe for concurrent use, callers serialize access per device.
type Cliconf interface {
	// GetConfig reads a configuration store from the device.
	GetConfig(ctx context.Context, req *GetConfigRequest) (string, error)
	// GetDiff computes the commands reconciling running towards candidate.
	GetDiff(ctx context.Context, req *DiffRequest) (*DiffResponse, error)
	// EditConfig stages a change set and commits or discards it.
	EditConfig(ctx context.Context, req *EditConfigRequest) (*EditConfigResponse, error)
	// EditBanner loads multi-line banner blocks.
	EditBanner(ctx context.Context, req *EditBannerRequest) (*EditBannerResponse, error)
	// Run executes a single command verbatim.
	Run(ctx context.Context, cmd *Command) (string, error)
	// GetDeviceInfo queries and parses the device identity.
	GetDeviceInfo(ctx context.Context) (*DeviceInfo, error)
	GetDeviceOperations() *DeviceOperations
	GetOptionValues() *OptionValues
	// GetCapabilities assembles the full capability report.
	GetCapabilities(ctx context.Context) (*Capabilities, error)
}

// New returns the dialect session for networkOS speaking over conn.
func New(networkOS string, conn Conn) (Cliconf, error) {
	switch networkOS {
	case OSIOS:
		return newIOS(conn), nil
	case OSVyOS:
		return newVyOS(conn), nil
	}
	return nil, fmt.Errorf("unknown network OS %q", networkOS)
}

// rpcs every dialect offers, dialect specific ones are appended
var baseRPCs = []string{"get_config", "edit_config", "get_capabilities", "get"}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
