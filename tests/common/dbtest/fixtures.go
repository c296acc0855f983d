//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const DefaultRoomName = "Reading Room A"

var DefaultRoomID = uuid.MustParse("6f9619ff-8b86-4d01-b42d-00c04fc964ff")

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, username, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4) ON CONFLICT (username) DO NOTHING",
		userID, username, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&userID)
	}

	return userID
}

// AnySeatID returns one open seat from the default room.
func AnySeatID(t *testing.T, db DBLike) uuid.UUID {
	t.Helper()

	var seatID uuid.UUID
	err := db.QueryRow(context.Background(), `
		SELECT id FROM seats
		WHERE room_id = $1 AND is_open
		ORDER BY label LIMIT 1`, DefaultRoomID).Scan(&seatID)
	require.NoError(t, err)
	return seatID
}

// SeedReferenceData inserts the room and seat grid the tests book against,
// mirroring the development seed migration.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO rooms (id, name, description)
		VALUES ($1, $2, 'Quiet study room on the second floor')
		ON CONFLICT (id) DO NOTHING;
	`, DefaultRoomID, DefaultRoomName)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO seats (id, room_id, label, pos_x, pos_y)
		SELECT gen_random_uuid(), $1, 'A' || (y * 4 + x + 1), x, y
		FROM generate_series(0, 3) AS x, generate_series(0, 2) AS y
		ON CONFLICT (room_id, label) DO NOTHING;
	`, DefaultRoomID)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables and reseeds reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
