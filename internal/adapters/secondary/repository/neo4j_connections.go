package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/johncpakin/pinged/internal/core/domain"
)

// Neo4jConnectionRepo : (:User)-[:CONNECTION {id, status, created_at}]->(:User)
// La flèche part de celui qui a envoyé la demande (ou qui a bloqué).
type Neo4jConnectionRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jConnectionRepo(driver neo4j.DriverWithContext) *Neo4jConnectionRepo {
	return &Neo4jConnectionRepo{driver: driver}
}

// EnsureSchema crée les index pour que les lookups par ID soient O(1)
func (r *Neo4jConnectionRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`, nil); err != nil {
			return nil, err
		}
		_, err := tx.Run(ctx, `CREATE INDEX connection_id IF NOT EXISTS FOR ()-[c:CONNECTION]-() ON (c.id)`, nil)
		return nil, err
	})
	return err
}

// Find cherche dans les deux sens : une seule arête par paire.
func (r *Neo4jConnectionRepo) Find(ctx context.Context, a, b string) (*domain.Connection, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (x:User {id: $a})-[c:CONNECTION]-(y:User {id: $b})
			RETURN c.id AS id, startNode(c).id AS from, endNode(c).id AS to,
			       c.status AS status, c.created_at AS createdAt
			LIMIT 1
		`
		res, err := tx.Run(ctx, query, map[string]any{"a": a, "b": b})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			return recordToConnection(res.Record())
		}
		return (*domain.Connection)(nil), res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Connection), nil
}

// createConnectionQuery verrouille les deux noeuds (SET/REMOVE) avant de tester l'arête :
// deux demandes croisées se sérialisent, la seconde voit l'arête de la première.
// Un deadlock entre sens opposés est transitoire, ExecuteWrite rejoue la transaction.
const createConnectionQuery = `
	MERGE (a:User {id: $from})
	MERGE (b:User {id: $to})
	SET a._lock = true, b._lock = true
	REMOVE a._lock, b._lock
	WITH a, b
	OPTIONAL MATCH (a)-[existing:CONNECTION]-(b)
	WITH a, b, count(existing) AS found
	FOREACH (x IN CASE WHEN found = 0 THEN [1] ELSE [] END |
		CREATE (a)-[:CONNECTION {id: $id, status: $status, created_at: $createdAt}]->(b)
	)
	RETURN found = 0 AS created
`

func createConnectionParams(conn *domain.Connection) map[string]any {
	return map[string]any{
		"id":        conn.ID,
		"from":      conn.UserID,
		"to":        conn.TargetUserID,
		"status":    string(conn.Status),
		"createdAt": conn.CreatedAt,
	}
}

func (r *Neo4jConnectionRepo) Create(ctx context.Context, conn *domain.Connection) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, createConnectionQuery, createConnectionParams(conn))
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		ok, _, err := neo4j.GetRecordValue[bool](rec, "created")
		return ok, err
	})
	if err != nil {
		return err
	}
	if ok, _ := created.(bool); !ok {
		return domain.ErrConnectionExists
	}
	return nil
}

func (r *Neo4jConnectionRepo) UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	updated, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH ()-[c:CONNECTION {id: $id}]->()
			SET c.status = $status
			RETURN count(c) AS updated
		`, map[string]any{"id": id, "status": string(status)})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := rec.Get("updated")
		return n, nil
	})
	if err != nil {
		return err
	}
	if n, _ := updated.(int64); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Neo4jConnectionRepo) Delete(ctx context.Context, id string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MATCH ()-[c:CONNECTION {id: $id}]->() DELETE c`, map[string]any{"id": id})
		return nil, err
	})
	return err
}

func (r *Neo4jConnectionRepo) ListAccepted(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.StreamAcceptedIDs(ctx, userID, 1000, func(batch []string) error {
		ids = append(ids, batch...)
		return nil
	})
	return ids, err
}

// StreamAcceptedIDs : la méthode pour le fan-out, résultat streamé par paquets.
func (r *Neo4jConnectionRepo) StreamAcceptedIDs(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	// Pas d'ExecuteRead : on veut streamer le résultat manuellement
	query := `
		MATCH (u:User {id: $userId})-[:CONNECTION {status: 'accepted'}]-(f:User)
		RETURN DISTINCT f.id AS friendId
	`
	res, err := session.Run(ctx, query, map[string]any{"userId": userID})
	if err != nil {
		return err
	}

	batch := make([]string, 0, batchSize)
	for res.Next(ctx) {
		id, _ := res.Record().Get("friendId")
		s, ok := id.(string)
		if !ok {
			continue
		}
		batch = append(batch, s)

		if len(batch) >= batchSize {
			if err := yield(batch); err != nil {
				return err
			}
			// yield peut garder la tranche : nouveau buffer
			batch = make([]string, 0, batchSize)
		}
	}

	if len(batch) > 0 {
		if err := yield(batch); err != nil {
			return err
		}
	}
	return res.Err()
}

func recordToConnection(rec *neo4j.Record) (*domain.Connection, error) {
	conn := &domain.Connection{}
	var ok bool

	fields := []struct {
		key string
		dst *string
	}{
		{"id", &conn.ID},
		{"from", &conn.UserID},
		{"to", &conn.TargetUserID},
	}
	for _, f := range fields {
		v, _ := rec.Get(f.key)
		if *f.dst, ok = v.(string); !ok {
			return nil, fmt.Errorf("neo4j: connection field %q missing", f.key)
		}
	}

	status, _ := rec.Get("status")
	s, _ := status.(string)
	conn.Status = domain.ConnectionStatus(s)

	if created, _ := rec.Get("createdAt"); created != nil {
		if t, ok := created.(time.Time); ok {
			conn.CreatedAt = t.UTC()
		}
	}
	return conn, nil
}
