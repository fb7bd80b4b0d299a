package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"jetpack/client"
	"jetpack/config"
	"jetpack/errs"
	"jetpack/logging"
	"jetpack/protocol"
)

// logPresenter is a stand-in for a real presentation layer: it mirrors state
// like any consumer would and logs the decoded events.
type logPresenter struct {
	*client.Mirror
	log *zap.SugaredLogger
}

func (p *logPresenter) OnConnectResponse(ev protocol.ConnectResponse) {
	p.Mirror.OnConnectResponse(ev)
	p.log.Infow("joined", "player", ev.PlayerId, "players", ev.PlayerCount)
}

func (p *logPresenter) OnGameStart(ev protocol.GameStart) {
	p.Mirror.OnGameStart(ev)
	p.log.Infow("game started", "players", ev.PlayerCount)
}

func (p *logPresenter) OnCoinCollected(ev protocol.CoinCollected) {
	p.Mirror.OnCoinCollected(ev)
	p.log.Infow("coin collected", "player", ev.PlayerId, "x", ev.X, "y", ev.Y, "score", ev.Score)
}

func (p *logPresenter) OnPlayerDeath(ev protocol.PlayerDeath) {
	p.Mirror.OnPlayerDeath(ev)
	p.log.Infow("player died", "player", ev.PlayerId)
}

func (p *logPresenter) OnGameOver(ev protocol.GameOver) {
	p.Mirror.OnGameOver(ev)
	if ev.HasWinner {
		p.log.Infow("game over", "winner", ev.WinnerId)
	} else {
		p.log.Infow("game over, no winner")
	}
}

func main() {
	config.Load()

	var (
		addr    = flag.String("a", config.String(config.EnvAddr, "127.0.0.1"), "server address")
		port    = flag.Int("p", config.Int(config.EnvPort, 8080), "server port")
		debug   = flag.Bool("d", config.Bool(config.EnvDebug, false), "debug mode (packet hex dumps)")
		logFile = flag.String("log", config.String(config.EnvLogFile, ""), "log file (rolling); stderr when empty")
	)
	flag.Parse()

	if *port <= 0 || *port > 65535 {
		fmt.Fprintf(os.Stderr, "Error: %v\n",
			errs.Newf(errs.KindConfig, "parse flags", "invalid port %d", *port))
		os.Exit(1)
	}

	log := logging.New(*logFile, *debug)
	defer func() { _ = log.Sync() }()

	mirror := client.NewMirror()
	c := client.New(*addr, *port, mirror, &logPresenter{Mirror: mirror, log: log}, *debug, log)
	if err := c.Connect(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		c.Close()
	}()

	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
