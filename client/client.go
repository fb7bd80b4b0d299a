package client

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"jetpack/errs"
	"jetpack/protocol"
)

// Client connects to the server, relays input on a fixed cadence, and feeds
// inbound bytes to the reassembler. Network I/O runs on two goroutines
// (reader, input sender); the presentation layer polls the handler's mirror.
type Client struct {
	addr    string
	port    int
	debug   bool
	log     *zap.SugaredLogger
	mirror  *Mirror
	handler Handler

	nc   net.Conn
	quit chan struct{}
	done chan struct{}
}

// New builds a client that dispatches into handler. Pass the same Mirror as
// both mirror and handler for the default behavior, or wrap it to observe
// events before they land.
func New(addr string, port int, mirror *Mirror, handler Handler, debug bool, log *zap.SugaredLogger) *Client {
	if handler == nil {
		handler = mirror
	}
	return &Client{
		addr:    addr,
		port:    port,
		debug:   debug,
		log:     log,
		mirror:  mirror,
		handler: handler,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Connect dials the server and sends the connect request. Failures are
// startup errors; the caller exits non-zero.
func (c *Client) Connect() error {
	target := fmt.Sprintf("%s:%d", c.addr, c.port)
	nc, err := net.Dial("tcp", target)
	if err != nil {
		return errs.New(errs.KindSocket, "connect to "+target, err)
	}
	c.nc = nc

	if _, err := nc.Write(protocol.EncodeConnectRequest()); err != nil {
		_ = nc.Close()
		return errs.New(errs.KindSocket, "send connect request", err)
	}
	c.log.Infow("connected", "server", target)
	return nil
}

// Run starts the input cadence and blocks reading the server stream until
// the connection drops or Close is called.
func (c *Client) Run() error {
	go c.inputLoop()
	defer close(c.done)
	return c.readLoop()
}

func (c *Client) Close() {
	select {
	case <-c.quit:
	default:
		close(c.quit)
	}
	if c.nc != nil {
		_ = c.nc.Close()
	}
}

// inputLoop sends the current jetpack flag every 16ms, matching the server's
// tick interval.
func (c *Client) inputLoop() {
	ticker := time.NewTicker(protocol.TickIntervalMs * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-c.quit:
			return
		case <-c.done:
			return
		case <-ticker.C:
			frame := protocol.EncodePlayerInput(c.mirror.Jetpack())
			if c.debug {
				c.log.Debugf("send %d bytes: % X", len(frame), frame)
			}
			if _, err := c.nc.Write(frame); err != nil {
				return
			}
		}
	}
}

func (c *Client) readLoop() error {
	r := NewReassembler(c.handler)
	buf := make([]byte, 1024)
	for {
		n, err := c.nc.Read(buf)
		if n > 0 {
			if c.debug {
				c.log.Debugf("recv %d bytes: % X", n, buf[:n])
			}
			if ferr := r.Feed(buf[:n]); ferr != nil {
				c.log.Warnw("stream abandoned", "err", ferr)
				return ferr
			}
		}
		if err != nil {
			select {
			case <-c.quit:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				c.log.Infow("server closed the connection")
				return nil
			}
			return errs.New(errs.KindSocket, "read from server", err)
		}
	}
}
