package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

// The relief driver enables WAL and foreign keys on every connection.
// Append-only chat history and booking conflict checks both rely on FK
// integrity between users, facilities and bookings.
func init() {
	sql.Register("sqlite3_relief", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA foreign_keys = ON",
				"PRAGMA busy_timeout = 5000",
			}
			for _, p := range pragmas {
				if _, err := conn.Exec(p, nil); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
