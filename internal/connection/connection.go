package connection

import (
	"fmt"
	"time"
)

// Protocol selects the backend used to talk to a site.
type Protocol int

const (
	SFTP Protocol = 0
	FTP  Protocol = 1
)

func (p Protocol) String() string {
	switch p {
	case SFTP:
		return "SFTP"
	case FTP:
		return "FTP"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// SentinelID marks the "no connection selected" placeholder.
const SentinelID = -1

// Connection is a saved site profile.
type Connection struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Host            string    `json:"host"`
	Port            int       `json:"port"`
	Username        string    `json:"username"`
	Password        string    `json:"password"`
	PrivateKey      string    `json:"private_key"`
	RemotePath      string    `json:"remote_path"`
	LocalPath       string    `json:"local_path"`
	Default         bool      `json:"default"`
	Protocol        Protocol  `json:"protocol"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	LastConnectedAt time.Time `json:"last_connected_at"`
}

// Sentinel returns the placeholder connection.
func Sentinel() Connection {
	return Connection{ID: SentinelID, Port: 22, Protocol: SFTP}
}

// IsSentinel reports whether c is the "none selected" placeholder.
func (c Connection) IsSentinel() bool {
	return c.ID == SentinelID
}

// Address is host:port for dialing.
func (c Connection) Address() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Label is a short human-readable name for headers.
func (c Connection) Label() string {
	if c.IsSentinel() {
		return "no connection"
	}
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s@%s", c.Username, c.Host)
}
