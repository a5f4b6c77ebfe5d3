package config

import "time"

const (
	defaultGRPCAddress    = ":56000"
	defaultMaxRecvMsgSize = 4 * 1024 * 1024
	defaultRPCTimeout     = 30 * time.Minute

	defaultSSHPort      = 22
	defaultTelnetPort   = 23
	defaultTimeout      = 30 * time.Second
	defaultSyncInterval = time.Minute
	defaultCacheTTL     = 5 * time.Minute
)
