// Package remote talks to saved sites over SSH and SFTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/logger"
)

var (
	// ErrNotConnected is returned for operations against the sentinel connection.
	ErrNotConnected = errors.New("no connection selected")
	// ErrNoAuth is returned when a connection has neither password nor key.
	ErrNoAuth = errors.New("no authentication method configured")
)

// DialTimeout bounds the TCP connect and SSH handshake.
const DialTimeout = 15 * time.Second

type session struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (s *session) close() {
	if s.sftp != nil {
		s.sftp.Close()
	}
	if s.ssh != nil {
		s.ssh.Close()
	}
}

// Pool caches one SSH session and SFTP client per connection id.
type Pool struct {
	mu             sync.Mutex
	sessions       map[int]*session
	log            logger.Func
	knownHostsPath string
	onConnect      func(id int)
}

// NewPool returns an empty pool that verifies host keys against
// knownHostsPath.
func NewPool(knownHostsPath string, log logger.Func) *Pool {
	if log == nil {
		log = logger.Log
	}
	return &Pool{
		sessions:       make(map[int]*session),
		log:            log,
		knownHostsPath: knownHostsPath,
	}
}

// OnConnect registers a callback run after each new session is established.
func (p *Pool) OnConnect(fn func(id int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onConnect = fn
}

func (p *Pool) get(ctx context.Context, conn connection.Connection) (*session, error) {
	if conn.IsSentinel() {
		return nil, ErrNotConnected
	}

	// the liveness check is a round trip, so it runs without p.mu
	p.mu.Lock()
	s, ok := p.sessions[conn.ID]
	p.mu.Unlock()
	if ok {
		if _, err := s.sftp.Getwd(); err == nil {
			return s, nil
		}
		p.log(logger.LevelWarn, "session for %s went stale, reconnecting", conn.Label())
		p.drop(conn.ID, s)
	}

	s, err := p.dial(ctx, conn)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if existing, ok := p.sessions[conn.ID]; ok {
		p.mu.Unlock()
		s.close()
		return existing, nil
	}
	p.sessions[conn.ID] = s
	onConnect := p.onConnect
	p.mu.Unlock()

	if onConnect != nil {
		onConnect(conn.ID)
	}
	return s, nil
}

func (p *Pool) dial(ctx context.Context, conn connection.Connection) (*session, error) {
	auth, err := authMethods(conn)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            conn.Username,
		Auth:            auth,
		HostKeyCallback: trustOnFirstUse(p.knownHostsPath, p.log),
		Timeout:         DialTimeout,
	}

	addr := conn.Address()
	d := net.Dialer{Timeout: DialTimeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	c, chans, reqs, err := ssh.NewClientConn(nc, addr, cfg)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	client := ssh.NewClient(c, chans, reqs)

	sc, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start sftp on %s: %w", addr, err)
	}

	p.log(logger.LevelInfo, "connected to %s as %s", addr, conn.Username)
	return &session{ssh: client, sftp: sc}, nil
}

// authMethods builds key and password auth. PrivateKey may hold PEM text
// or a path to a key file; Password doubles as the key passphrase.
func authMethods(conn connection.Connection) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if conn.PrivateKey != "" {
		signer, err := parseKey(conn.PrivateKey, conn.Password)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if conn.Password != "" {
		methods = append(methods, ssh.Password(conn.Password))
	}
	if len(methods) == 0 {
		return nil, ErrNoAuth
	}
	return methods, nil
}

func parseKey(keyOrPath, passphrase string) (ssh.Signer, error) {
	pem := []byte(keyOrPath)
	if !strings.HasPrefix(strings.TrimSpace(keyOrPath), "-----BEGIN") {
		path := keyOrPath
		if strings.HasPrefix(path, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		pem = data
	}

	signer, err := ssh.ParsePrivateKey(pem)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(passphrase))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

// drop forgets s if it is still the cached session for id, then closes it.
func (p *Pool) drop(id int, s *session) {
	p.mu.Lock()
	if p.sessions[id] == s {
		delete(p.sessions, id)
	}
	p.mu.Unlock()
	s.close()
}

// Disconnect closes the session for one connection.
func (p *Pool) Disconnect(id int) {
	p.mu.Lock()
	s, ok := p.sessions[id]
	delete(p.sessions, id)
	p.mu.Unlock()
	if ok {
		s.close()
	}
}

// Close tears down every session.
func (p *Pool) Close() {
	p.mu.Lock()
	sessions := p.sessions
	p.sessions = make(map[int]*session)
	p.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}

// Connected reports whether a session is cached for id.
func (p *Pool) Connected(id int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[id]
	return ok
}

// run executes fn off the caller's goroutine and gives up when ctx ends.
// The SFTP client has no context support, so an abandoned call finishes in
// the background and its result is dropped.
func run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
