package config

import "errors"

var (
	ErrConfigNotFound = errors.New("config.repository: config not found")
	ErrBuildQuery     = errors.New("config.repository: failed to build query")
	ErrExecQuery      = errors.New("config.repository: failed to execute query")
	ErrScanRow        = errors.New("config.repository: failed to scan row")
)
