// Package remote keeps a copy of the task file on another host over SSH.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/infra/crypto"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Ensure SSH implements domain.Remote.
var _ domain.Remote = (*SSH)(nil)

// missingMarker is printed by the fetch command when the remote file is absent.
const missingMarker = "__DELLA_MISSING__"

// dialFunc opens a client connection. Tests replace it.
type dialFunc func(ctx context.Context, network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error)

// SSH implements domain.Remote by running cat on the remote host.
// Fields are ordered to minimize memory padding.
type SSH struct {
	logger domain.Logger
	enc    *crypto.Encryptor
	dial   dialFunc
	home   string
	cfg    domain.RemoteConfig
}

// New creates an SSH remote. enc may be nil to store plain copies.
func New(cfg domain.RemoteConfig, enc *crypto.Encryptor, logger domain.Logger) (*SSH, error) {
	if !cfg.Enabled {
		return nil, domain.ErrRemoteDisabled
	}
	if cfg.Host == "" || cfg.Path == "" {
		return nil, fmt.Errorf("%w: remote host and path are required", domain.ErrValidation)
	}
	home, _ := os.UserHomeDir()
	return &SSH{
		cfg:    cfg,
		enc:    enc,
		logger: logger,
		home:   home,
		dial:   dialContext,
	}, nil
}

// Describe returns user@host:path.
func (s *SSH) Describe() string {
	return fmt.Sprintf("%s@%s:%s", s.username(), s.cfg.Host, s.cfg.Path)
}

// Fetch returns the remote file, or nil if it does not exist.
func (s *SSH) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.run(ctx, FetchCommand(s.cfg.Path), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.Describe(), err)
	}
	if bytes.Equal(bytes.TrimSpace(out), []byte(missingMarker)) {
		return nil, nil
	}
	if crypto.IsEncrypted(out) {
		if s.enc == nil {
			return nil, fmt.Errorf("fetch %s: remote copy is encrypted but no encryption_key_file is set", s.Describe())
		}
		plain, err := s.enc.Decrypt(out)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", s.Describe(), err)
		}
		return plain, nil
	}
	return out, nil
}

// Push replaces the remote file with data.
func (s *SSH) Push(ctx context.Context, data []byte) error {
	payload := data
	if s.enc != nil {
		sealed, err := s.enc.Encrypt(data)
		if err != nil {
			return fmt.Errorf("push %s: %w", s.Describe(), err)
		}
		payload = sealed
	}
	if _, err := s.run(ctx, PushCommand(s.cfg.Path), payload); err != nil {
		return fmt.Errorf("push %s: %w", s.Describe(), err)
	}
	return nil
}

// run executes cmd on the remote host, feeding stdin when non-nil.
func (s *SSH) run(ctx context.Context, cmd string, stdin []byte) ([]byte, error) {
	auth, agentConn, err := s.authMethods()
	if err != nil {
		return nil, err
	}
	if agentConn != nil {
		defer agentConn.Close()
	}
	hostKey, err := s.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            s.username(),
		Auth:            auth,
		HostKeyCallback: hostKey,
	}

	client, err := s.dial(ctx, "tcp", s.cfg.Address(), config)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", s.cfg.Address(), err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if stdin != nil {
		session.Stdin = bytes.NewReader(stdin)
	}

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		_ = session.Close()
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%w: %s", err, msg)
			}
			return nil, err
		}
	}
	return stdout.Bytes(), nil
}

func (s *SSH) username() string {
	if s.cfg.User != "" {
		return s.cfg.User
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

// authMethods tries the SSH agent first, then key files.
// The returned closer owns the agent connection; it is nil when the agent is not used.
func (s *SSH) authMethods() ([]ssh.AuthMethod, io.Closer, error) {
	var methods []ssh.AuthMethod
	var agentConn io.Closer

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			agentClient := agent.NewClient(conn)
			if signers, err := agentClient.Signers(); err == nil && len(signers) > 0 {
				methods = append(methods, ssh.PublicKeysCallback(agentClient.Signers))
				agentConn = conn
			} else {
				_ = conn.Close()
			}
		}
	}

	for _, keyFile := range KeyFiles(s.cfg.PrivateKey, s.home) {
		key, err := loadPrivateKey(keyFile)
		if err != nil {
			continue
		}
		methods = append(methods, ssh.PublicKeys(key))
	}

	if len(methods) == 0 {
		return nil, nil, errors.New("no SSH keys found (checked agent and ~/.ssh/id_*)")
	}
	return methods, agentConn, nil
}

// hostKeyCallback verifies against known_hosts when the file exists.
func (s *SSH) hostKeyCallback() (ssh.HostKeyCallback, error) {
	file := s.cfg.KnownHosts
	if file == "" {
		file = filepath.Join(s.home, ".ssh", "known_hosts")
	}
	if _, err := os.Stat(file); err != nil {
		if s.logger != nil {
			s.logger.Warn("sync", "known_hosts not found, host key is not verified: "+file)
		}
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // no known_hosts to check against
	}
	cb, err := knownhosts.New(file)
	if err != nil {
		return nil, fmt.Errorf("read known_hosts: %w", err)
	}
	return cb, nil
}

// KeyFiles lists the private keys to try: the configured one, or the ~/.ssh defaults.
func KeyFiles(configured, home string) []string {
	if configured != "" {
		return []string{configured}
	}
	return []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
}

func loadPrivateKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(data)
}

// FetchCommand prints the file at p, or the missing marker if it does not exist.
func FetchCommand(p string) string {
	q := ShellQuote(p)
	return fmt.Sprintf("if [ -f %s ]; then cat -- %s; else echo %s; fi", q, q, missingMarker)
}

// PushCommand replaces the file at p with stdin, creating its directory.
func PushCommand(p string) string {
	dir := path.Dir(p)
	tmp := ShellQuote(p + ".tmp")
	return fmt.Sprintf("mkdir -p -- %s && cat > %s && mv -f -- %s %s",
		ShellQuote(dir), tmp, tmp, ShellQuote(p))
}

// ShellQuote wraps s in single quotes for a POSIX shell.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func dialContext(ctx context.Context, network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}
