package server

import (
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"jetpack/errs"
	"jetpack/game"
	"jetpack/protocol"
)

// Commands posted to the owner loop. Input and leave carry the session so a
// stale command from a previous round can never touch a reused player id.
type join struct {
	nc net.Conn
}

type input struct {
	sess    *Session
	jetpack bool
}

type leave struct {
	sess *Session
}

// Server owns all game and session state on a single goroutine: commands
// arrive over the inbox, a 16ms ticker paces exactly one simulation step per
// iteration, and nothing else ever touches the world.
type Server struct {
	lis      net.Listener
	world    *game.World
	sessions map[int]*Session
	bcast    *Broadcaster
	inbox    chan any
	quit     chan struct{}
	log      *zap.SugaredLogger
	debug    bool
}

// New loads the map and starts listening. Both failures are fatal to the
// caller (exit 1), per the startup error taxonomy.
func New(port int, mapFile string, debug bool, log *zap.SugaredLogger) (*Server, error) {
	m, err := game.LoadMapFile(mapFile)
	if err != nil {
		return nil, err
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errs.New(errs.KindSocket, fmt.Sprintf("listen on port %d", port), err)
	}

	w := game.NewWorld(m, log)
	w.Reload = func() (*game.GameMap, error) { return game.LoadMapFile(mapFile) }

	sessions := make(map[int]*Session)
	s := &Server{
		lis:      lis,
		world:    w,
		sessions: sessions,
		bcast:    NewBroadcaster(sessions, log, debug),
		inbox:    make(chan any, 256),
		quit:     make(chan struct{}),
		log:      log,
		debug:    debug,
	}
	log.Infow("listening", "addr", lis.Addr().String(), "map", mapFile,
		"w", m.Width, "h", m.Height)
	return s, nil
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

// Run blocks until Close. It is the owner goroutine; session teardown at
// shutdown happens here so no other goroutine ever touches the registry.
func (s *Server) Run() {
	go s.acceptLoop()
	defer s.closeAllSessions()

	ticker := time.NewTicker(protocol.TickIntervalMs * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-ticker.C:
			s.dispatch(s.world.Tick())
		}
	}
}

// Close stops the loop and the listener; Run tears down the sessions on its
// way out.
func (s *Server) Close() {
	select {
	case <-s.quit:
		return
	default:
		close(s.quit)
	}
	_ = s.lis.Close()
}

func (s *Server) acceptLoop() {
	for {
		nc, err := s.lis.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warnw("accept failed", "err", err)
			continue
		}
		select {
		case s.inbox <- join{nc: nc}:
		case <-s.quit:
			_ = nc.Close()
			return
		}
	}
}

func (s *Server) handle(cmd any) {
	switch c := cmd.(type) {
	case join:
		s.handleJoin(c.nc)
	case input:
		if s.sessions[c.sess.PlayerId] == c.sess {
			s.world.SetJetpack(c.sess.PlayerId, c.jetpack)
		}
	case leave:
		s.handleLeave(c.sess)
	}
}

func (s *Server) handleJoin(nc net.Conn) {
	if len(s.sessions) >= game.MaxClients {
		s.log.Infow("connection refused, game full", "remote", nc.RemoteAddr())
		_ = nc.Close()
		return
	}

	p := s.world.AddPlayer()
	sess := newSession(p.Id, newTCPConn(nc, s.log))
	s.sessions[p.Id] = sess
	s.log.Infow("player connected", "player", p.Id, "conn", sess.ConnId,
		"remote", nc.RemoteAddr())

	s.bcast.SendTo(sess, protocol.EncodeConnectResponse(uint8(p.Id), uint8(len(s.sessions))))
	s.bcast.SendTo(sess, protocol.EncodeMapData(mapData(s.world.Map())))

	go s.readLoop(nc, sess)

	s.dispatch(s.world.MaybeStart())
}

func (s *Server) handleLeave(sess *Session) {
	if s.sessions[sess.PlayerId] != sess {
		return // already removed, e.g. by a round reset
	}
	s.log.Infow("player disconnected", "player", sess.PlayerId, "conn", sess.ConnId,
		"droppedInputs", sess.DroppedInputs())
	_ = sess.Conn.Close()
	delete(s.sessions, sess.PlayerId)
	s.dispatch(s.world.RemovePlayer(sess.PlayerId))
}

// dispatch broadcasts world events in order; RoundReset closes every session
// so the next round starts from a clean slate.
func (s *Server) dispatch(events []game.Event) {
	for _, ev := range events {
		if _, ok := ev.(game.RoundReset); ok {
			s.closeAllSessions()
			continue
		}
		s.bcast.Event(ev)
	}
}

func (s *Server) closeAllSessions() {
	for id, sess := range s.sessions {
		_ = sess.Conn.Close()
		delete(s.sessions, id)
	}
	s.log.Infow("sessions cleared, waiting for players")
}

// readLoop drains one client's byte stream, reassembles whole frames, and
// posts decoded commands to the owner loop. Runs per connection.
func (s *Server) readLoop(nc net.Conn, sess *Session) {
	defer func() {
		select {
		case s.inbox <- leave{sess: sess}:
		case <-s.quit:
		}
	}()

	buf := make([]byte, 1024)
	var acc []byte
	for {
		n, err := nc.Read(buf)
		if n > 0 {
			if s.debug {
				s.log.Debugf("recv %d bytes from %s: % X", n, sess.ConnId, buf[:n])
			}
			acc = append(acc, buf[:n]...)
			consumed := 0
			for {
				size := protocol.FrameLength(acc[consumed:])
				if size == 0 {
					if consumed < len(acc) && !protocol.KnownTag(acc[consumed]) {
						s.log.Warnw("framing desync, dropping connection",
							"conn", sess.ConnId, "tag", acc[consumed])
						return
					}
					break
				}
				if !s.handleFrame(sess, acc[consumed:consumed+size]) {
					return
				}
				consumed += size
			}
			if consumed > 0 {
				acc = append(acc[:0], acc[consumed:]...)
			}
		}
		if err != nil {
			return
		}
	}
}

// handleFrame applies one inbound frame; false means stop reading.
func (s *Server) handleFrame(sess *Session, frame []byte) bool {
	switch frame[0] {
	case protocol.TagConnectRequest:
		// Handshake is implicit in the accept; nothing to do.
	case protocol.TagPlayerInput:
		if !sess.AllowInput() {
			s.log.Debugw("input rate limited", "conn", sess.ConnId)
			return true
		}
		in, err := protocol.DecodePlayerInput(frame)
		if err != nil {
			return true
		}
		select {
		case s.inbox <- input{sess: sess, jetpack: in.JetpackActive}:
		case <-s.quit:
			return false
		}
	case protocol.TagPlayerDisconnect:
		return false
	}
	return true
}
