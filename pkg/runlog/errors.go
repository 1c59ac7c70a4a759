package runlog

import "errors"

var (
	ErrRecordFailed = errors.New("failed to record run")
	ErrListFailed   = errors.New("failed to list runs")
	ErrNilClient    = errors.New("redis client cannot be nil")
)
