package remote

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/LFroesch/sitescout/internal/logger"
)

// DefaultKnownHostsPath returns ~/.ssh/known_hosts.
func DefaultKnownHostsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "known_hosts"), nil
}

var knownHostsMu sync.Mutex

// trustOnFirstUse verifies host keys against the known_hosts file at path.
// Unknown hosts are accepted and recorded; a changed key is rejected.
func trustOnFirstUse(path string, log logger.Func) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		knownHostsMu.Lock()
		defer knownHostsMu.Unlock()

		if err := ensureFile(path); err != nil {
			log(logger.LevelWarn, "cannot create %s: %v", path, err)
			return nil
		}

		check, err := knownhosts.New(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}

		err = check(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			log(logger.LevelInfo, "new host key for %s (%s), adding to %s",
				hostname, ssh.FingerprintSHA256(key), path)
			if werr := appendKnownHost(path, hostname, key); werr != nil {
				log(logger.LevelWarn, "cannot write %s: %v", path, werr)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("host key check for %s: %w", hostname, err)
		}
		return nil
	}
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	return f.Close()
}

func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	_, err = f.WriteString(line + "\n")
	return err
}
