package domain

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

// Connection est dirigée : UserID a envoyé la demande à TargetUserID.
type Connection struct {
	ID           string
	UserID       string
	TargetUserID string
	Status       ConnectionStatus
	CreatedAt    time.Time
}

// ConnectionState est la relation vue depuis un utilisateur (bouton du profil).
type ConnectionState string

const (
	StateNone            ConnectionState = "none"
	StateRequestSent     ConnectionState = "request_sent"
	StateRequestReceived ConnectionState = "request_received"
	StateConnected       ConnectionState = "connected"
	StateBlocked         ConnectionState = "blocked"
)

func (c *Connection) StateFor(viewerID string) ConnectionState {
	if c == nil {
		return StateNone
	}
	switch c.Status {
	case ConnectionAccepted:
		return StateConnected
	case ConnectionBlocked:
		return StateBlocked
	case ConnectionPending:
		if c.UserID == viewerID {
			return StateRequestSent
		}
		return StateRequestReceived
	}
	return StateNone
}

// Other renvoie l'autre extrémité de la connexion.
func (c *Connection) Other(userID string) string {
	if c.UserID == userID {
		return c.TargetUserID
	}
	return c.UserID
}
