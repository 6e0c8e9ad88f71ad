// Command shotpro-devserver serves an in-memory screenshot backend for
// trying the client without a browser farm.
package main

import (
	"flag"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/shotpro/internal/config"
	"github.com/thesavant42/shotpro/internal/fakeapi"
	"github.com/thesavant42/shotpro/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	addr := flag.String("addr", cfg.DevAddr, "listen address")
	polls := flag.Int("async-polls", 2, "status checks a queued capture stays pending for")
	level := flag.String("log-level", cfg.LogLevel, "log level")
	flag.Parse()

	logger, _, err := logging.New(logging.Options{Level: *level, Prefix: "devserver"})
	if err != nil {
		log.Fatal("Invalid log level", "error", err)
	}

	srv := fakeapi.New(fakeapi.Config{Logger: logger, AsyncPolls: *polls})
	logger.Info("Listening", "addr", *addr)
	if err := srv.Run(*addr); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}
