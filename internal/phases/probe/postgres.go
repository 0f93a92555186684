package probe

import (
	"context"
	"database/sql"
	"net/url"

	// Registers the pgx database/sql driver used for readiness pings.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// postgresChecker opens a throwaway connection and pings it. A
// successful ping means the server completed authentication and is
// accepting queries, which is a stronger signal than an accepted TCP
// connection (postgres listens before recovery finishes).
type postgresChecker struct {
	dsn     string
	display string
}

func newPostgresChecker(dsn string, u *url.URL) *postgresChecker {
	return &postgresChecker{dsn: dsn, display: u.Redacted()}
}

func (c *postgresChecker) String() string { return c.display }

func (c *postgresChecker) Check(ctx context.Context) error {
	db, err := sql.Open("pgx", c.dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}
