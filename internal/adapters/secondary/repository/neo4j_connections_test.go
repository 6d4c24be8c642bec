package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johncpakin/pinged/internal/core/domain"
)

func TestRecordToConnection(t *testing.T) {
	created := time.Date(2026, 10, 17, 20, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	rec := &neo4j.Record{
		Keys:   []string{"id", "from", "to", "status", "createdAt"},
		Values: []any{"c1", "alice", "bob", "pending", created},
	}

	conn, err := recordToConnection(rec)
	require.NoError(t, err)
	assert.Equal(t, "c1", conn.ID)
	assert.Equal(t, "alice", conn.UserID)
	assert.Equal(t, "bob", conn.TargetUserID)
	assert.Equal(t, domain.ConnectionPending, conn.Status)
	assert.Equal(t, created.UTC(), conn.CreatedAt)
	assert.Equal(t, domain.StateRequestReceived, conn.StateFor("bob"))
}

func TestRecordToConnectionMissingField(t *testing.T) {
	rec := &neo4j.Record{Keys: []string{"id", "from"}, Values: []any{"c1", "alice"}}
	_, err := recordToConnection(rec)
	assert.Error(t, err)
}

func TestCreateConnectionParams(t *testing.T) {
	created := time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)
	conn := &domain.Connection{ID: "c1", UserID: "alice", TargetUserID: "bob", Status: domain.ConnectionBlocked, CreatedAt: created}

	assert.Equal(t, map[string]any{
		"id": "c1", "from": "alice", "to": "bob", "status": "blocked", "createdAt": created,
	}, createConnectionParams(conn))
}

func TestCreateConnectionQueryGuardsPair(t *testing.T) {
	// l'arête existante est cherchée sans direction, dans la même requête que le CREATE
	q := strings.Join(strings.Fields(createConnectionQuery), " ")
	assert.Contains(t, q, "OPTIONAL MATCH (a)-[existing:CONNECTION]-(b)")
	assert.Less(t, strings.Index(q, "SET a._lock"), strings.Index(q, "OPTIONAL MATCH"))
	assert.Less(t, strings.Index(q, "OPTIONAL MATCH"), strings.Index(q, "CREATE"))
	assert.Contains(t, q, "RETURN found = 0 AS created")
}
