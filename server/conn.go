package server

import (
	"net"
	"time"

	"go.uber.org/zap"
)

// Conn is the send side of one client connection. The fake conns in tests
// implement it too.
type Conn interface {
	Send(b []byte) error
	Close() error
}

// tcpConn wraps a net.Conn with a buffered send queue and a write pump so a
// slow client can never stall the tick loop. A full queue drops the frame;
// snapshots are resent every tick anyway.
type tcpConn struct {
	nc   net.Conn
	send chan []byte
	done chan struct{}
	log  *zap.SugaredLogger
}

func newTCPConn(nc net.Conn, log *zap.SugaredLogger) *tcpConn {
	c := &tcpConn{
		nc:   nc,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
		log:  log,
	}
	go c.writePump()
	return c
}

func (c *tcpConn) Send(b []byte) error {
	select {
	case <-c.done:
		return net.ErrClosed
	default:
	}
	select {
	case c.send <- b:
	default:
		c.log.Debugw("send queue full, frame dropped", "bytes", len(b))
	}
	return nil
}

func (c *tcpConn) writePump() {
	defer c.nc.Close()
	for {
		select {
		case <-c.done:
			c.flush()
			return
		case b := <-c.send:
			n, err := c.nc.Write(b)
			if err != nil {
				c.log.Debugw("write failed", "err", err)
				return
			}
			if n < len(b) {
				// Not retried; the peer either catches up on the next
				// frame or gets dropped at disconnect detection.
				c.log.Debugw("short write", "sent", n, "want", len(b))
			}
		}
	}
}

// flush drains frames queued before Close so a game-over posted right before
// the hang-up still reaches the peer.
func (c *tcpConn) flush() {
	_ = c.nc.SetWriteDeadline(time.Now().Add(time.Second))
	for {
		select {
		case b := <-c.send:
			if _, err := c.nc.Write(b); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Close stops accepting sends and lets the pump flush and close the socket.
func (c *tcpConn) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return nil
}
