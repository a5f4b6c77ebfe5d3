package cliconf

// Configuration stores a device may expose.
const (
	SourceRunning = "running"
	SourceStartup = "startup"
)

// GetConfigRequest selects which configuration store to read and how.
type GetConfigRequest struct {
	Source string   // running or startup; dialects without stores ignore it
	Format string   // dialect specific rendering, e.g. text or set
	Filter []string // appended to the show command where supported
}

// DiffRequest asks for the commands reconciling Running towards Candidate.
type DiffRequest struct {
	Candidate   string
	Running     string
	Match       string
	Replace     string
	Path        []string
	IgnoreLines []string
}

// DiffResponse is the reconciliation result. An empty ConfigDiff and an empty
// BannerDiff mean no changes are required.
type DiffResponse struct {
	ConfigDiff string            `json:"config_diff"`
	BannerDiff map[string]string `json:"banner_diff,omitempty"`

	// Commands is ConfigDiff as individual statements in staging order.
	Commands []string `json:"-"`
}

// EditConfigRequest carries a change set for the transactional apply.
type EditConfigRequest struct {
	Candidate []*Command
	Commit    bool
	Replace   bool
	Comment   string
}

// EditConfigResponse reports the outputs of the staged commands, exclusive of
// the mode entry and exit bookkeeping. Diff is the device reported pending
// change where the dialect supports on-device comparison.
type EditConfigResponse struct {
	Diff     string   `json:"diff,omitempty"`
	Response []string `json:"response"`

	// Committed reports whether the change set ended up in the running
	// configuration.
	Committed bool `json:"-"`
}

// EditBannerRequest carries banner bodies keyed by their banner command
// ("banner motd", "banner login", ...).
type EditBannerRequest struct {
	Candidate          map[string]string
	MultilineDelimiter string // defaults to "@"
	Commit             bool
	Diff               bool
}

// EditBannerResponse reports the collected outputs of the banner load. Diff
// echoes the candidate banners as JSON when requested.
type EditBannerResponse struct {
	Diff     string   `json:"diff,omitempty"`
	Response []string `json:"response"`
}

// DeviceInfo is the parsed identity of the remote device.
type DeviceInfo struct {
	NetworkOS string `json:"network_os"`
	Version   string `json:"network_os_version,omitempty"`
	Model     string `json:"network_os_model,omitempty"`
	Hostname  string `json:"network_os_hostname,omitempty"`
}

// DeviceOperations reports the transactional abilities of a dialect. The two
// "support_" spellings are historical but fixed, callers key on them.
type DeviceOperations struct {
	SupportsDiffReplace        bool `json:"supports_diff_replace"`
	SupportsCommit             bool `json:"supports_commit"`
	SupportsRollback           bool `json:"supports_rollback"`
	SupportsDefaults           bool `json:"supports_defaults"`
	SupportsOnboxDiff          bool `json:"supports_onbox_diff"`
	SupportsCommitComment      bool `json:"supports_commit_comment"`
	SupportsMultilineDelimiter bool `json:"supports_multiline_delimiter"`
	SupportsDiffMatch          bool `json:"support_diff_match"`
	SupportsDiffIgnoreLines    bool `json:"support_diff_ignore_lines"`
	SupportsGenerateDiff       bool `json:"supports_generate_diff"`
	SupportsReplace            bool `json:"supports_replace"`
}

// OptionValues lists the request option values a dialect accepts.
type OptionValues struct {
	Format      []string `json:"format"`
	DiffMatch   []string `json:"diff_match"`
	DiffReplace []string `json:"diff_replace"`
}

// Capabilities is the full capability report for a session.
type Capabilities struct {
	RPC              []string          `json:"rpc"`
	NetworkAPI       string            `json:"network_api"`
	DeviceInfo       *DeviceInfo       `json:"device_info"`
	DeviceOperations *DeviceOperations `json:"device_operations"`
	Format           []string          `json:"format"`
	DiffMatch        []string          `json:"diff_match"`
	DiffReplace      []string          `json:"diff_replace"`
}
