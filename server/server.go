// Package server hosts one match over TCP: it gathers remote
// participants during a bounded signup window, hands them as proxy
// players to a referee, and reports the result. A server runs exactly
// one match in its lifetime.
package server

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tilerow/qgame/config"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/player"
	"github.com/tilerow/qgame/referee"
)

// MinPlayers is the smallest field a match starts with.
const MinPlayers = 2

// maxNameBytes bounds the handshake read; nobody needs a longer name.
const maxNameBytes = 256

// A Server owns the listener, the accepted connections, and the
// ran-once flag. All of that state lives here rather than in process
// globals so each handler works against one explicit context object.
type Server struct {
	cfg config.ServerConfig

	mu      sync.Mutex
	ran     bool
	proxies []*ProxyPlayer
}

// New builds a server from its config.
func New(cfg config.ServerConfig) *Server {
	return &Server{cfg: cfg}
}

// Run listens, gathers participants, plays the one match, and returns
// its result. Too few signups after every round yields an empty result
// rather than an error: nobody misbehaved and nobody won.
func (s *Server) Run(ctx context.Context) (*referee.Result, error) {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("cannot accept signups on %s: %w", addr, err)
	}
	defer ln.Close()
	defer s.closeAll()

	log.Info().Str("addr", addr).Msg("waiting for signups")
	for try := 0; try < s.cfg.ServerTries && len(s.proxies) < MinPlayers && ctx.Err() == nil; try++ {
		s.gather(ctx, ln.(*net.TCPListener))
	}
	if len(s.proxies) < MinPlayers {
		log.Info().Int("signups", len(s.proxies)).Msg("not enough participants; no match played")
		return &referee.Result{Winners: []string{}, Misbehaved: []string{}}, nil
	}

	return s.playMatch(ctx)
}

// gather runs one signup round: it accepts connections until the
// window closes or the match is full, performing the name handshake on
// each connection concurrently.
func (s *Server) gather(ctx context.Context, ln *net.TCPListener) {
	window := time.Duration(s.cfg.ServerWaitSeconds) * time.Second
	deadline := time.Now().Add(window)
	var wg sync.WaitGroup

	// A cancelled ctx expires the accept deadline immediately so the
	// window does not have to run out first.
	stop := context.AfterFunc(ctx, func() {
		_ = ln.SetDeadline(time.Now())
	})
	defer stop()

	for time.Now().Before(deadline) && !s.full() && ctx.Err() == nil {
		if err := ln.SetDeadline(deadline); err != nil {
			break
		}
		conn, err := ln.Accept()
		if err != nil {
			// Window elapsed or listener closed.
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.signup(conn)
		}()
	}
	wg.Wait()
}

// signup performs the handshake: the connecting process's first bytes
// are its display name as raw text. Late, empty, or duplicate names
// lose the connection.
func (s *Server) signup(conn net.Conn) {
	wait := time.Duration(s.cfg.SignupWaitSeconds) * time.Second
	if err := conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		conn.Close()
		return
	}
	buf := make([]byte, maxNameBytes)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		conn.Close()
		return
	}
	name := strings.TrimSpace(string(buf[:n]))
	// Clear the handshake deadline; the referee sets per-call ones.
	_ = conn.SetReadDeadline(time.Time{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" || len(s.proxies) >= game.MaxPlayers || s.nameTakenLocked(name) {
		conn.Close()
		return
	}
	log.Info().Str("player", name).Msg("participant signed up")
	s.proxies = append(s.proxies, NewProxyPlayer(name, conn))
}

func (s *Server) full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.proxies) >= game.MaxPlayers
}

func (s *Server) nameTakenLocked(name string) bool {
	for _, p := range s.proxies {
		if p.Name() == name {
			return true
		}
	}
	return false
}

// playMatch runs the referee over the gathered proxies, exactly once.
func (s *Server) playMatch(ctx context.Context) (*referee.Result, error) {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		return nil, fmt.Errorf("this server already ran its match")
	}
	s.ran = true
	players := make([]player.Player, len(s.proxies))
	for i, p := range s.proxies {
		players[i] = p
	}
	s.mu.Unlock()

	score := s.cfg.Referee.RulesScore()
	ref := referee.New(referee.Config{
		PerTurn: s.cfg.Referee.PerTurn(),
		Score:   &score,
	})
	return ref.Run(ctx, players)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.proxies {
		_ = p.Close()
	}
}
