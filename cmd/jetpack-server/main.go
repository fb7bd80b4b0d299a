package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jetpack/config"
	"jetpack/errs"
	"jetpack/logging"
	"jetpack/server"
)

func main() {
	config.Load()

	var (
		port    = flag.Int("p", config.Int(config.EnvPort, 8080), "listen port")
		mapFile = flag.String("m", config.String(config.EnvMap, ""), "map file path")
		debug   = flag.Bool("d", config.Bool(config.EnvDebug, false), "debug mode (packet hex dumps)")
		logFile = flag.String("log", config.String(config.EnvLogFile, ""), "log file (rolling); stderr when empty")
	)
	flag.Parse()

	if *mapFile == "" {
		fmt.Fprintf(os.Stderr, "Error: %v\n",
			errs.Newf(errs.KindConfig, "parse flags", "map file is required"))
		fmt.Fprintf(os.Stderr, "Usage: %s -p <port> -m <map> [-d] [-log <file>]\n", os.Args[0])
		os.Exit(1)
	}
	if *port <= 0 || *port > 65535 {
		fmt.Fprintf(os.Stderr, "Error: %v\n",
			errs.Newf(errs.KindConfig, "parse flags", "invalid port %d", *port))
		os.Exit(1)
	}

	log := logging.New(*logFile, *debug)
	defer func() { _ = log.Sync() }()

	srv, err := server.New(*port, *mapFile, *debug, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Infow("shutting down")
		srv.Close()
	}()

	srv.Run()
}
