package searchspace

import "github.com/btcsuite/btclog"

// log is the package logger. It is disabled by default; callers that want
// searchspace output route it through UseLogger.
var log = btclog.Disabled

// UseLogger uses the passed logger for all package output.
func UseLogger(logger btclog.Logger) {
	log = logger
}
