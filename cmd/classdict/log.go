package main

import (
	logpkg "github.com/echa/log"
	"github.com/reoring/classdict"
	"github.com/reoring/classdict/schemafile"
)

var (
	log     = logpkg.NewLogger("MAIN") // command level
	libLog  = logpkg.NewLogger("CDCT") // classdict core
	fileLog = logpkg.NewLogger("FILE") // schema files
)

// initLogging configures the log backend and hands the library loggers to
// the packages. Library output stays off unless verbose is set.
func initLogging(level string, verbose bool) {
	cfg := logpkg.NewConfig()
	cfg.Level = logpkg.ParseLevel(level)
	cfg.Flags = logpkg.ParseFlags("time,micro")
	cfg.Backend = "stderr"
	logpkg.Init(cfg)

	log = logpkg.NewLogger("MAIN")
	libLog = logpkg.NewLogger("CDCT")
	fileLog = logpkg.NewLogger("FILE")
	if !verbose {
		classdict.DisableLog()
		schemafile.DisableLog()
		return
	}
	for _, l := range []logpkg.Logger{log, libLog, fileLog} {
		l.SetLevel(logpkg.LevelDebug)
	}
	classdict.UseLogger(libLog)
	schemafile.UseLogger(fileLog)
}
