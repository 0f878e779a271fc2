package testing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EngagementFixture seeds one government project engaged by three other
// organizations: a follower, a downloader and a vendor with a submitted proposal.
// Both engagement queries return three rows for it.
const EngagementFixture = `
INSERT INTO organization (id, name) VALUES
    (1, 'City of Springfield'),
    (2, 'Acme Follow Co'),
    (3, 'Bravo Downloads LLC'),
    (4, 'Charlie Bids Inc');

INSERT INTO project (id, title, government_id) VALUES (1, 'Road resurfacing', 1);

INSERT INTO "user" (id, email, organization_id) VALUES
    (1, 'a@acme.test', 2),
    (2, 'b@bravo.test', 3);

INSERT INTO vendor (id, organization_id) VALUES (1, 4);

INSERT INTO project_vendor_user_subscriptions (project_id, user_id) VALUES (1, 1);
INSERT INTO project_user_downloads (project_id, user_id) VALUES (1, 2);

INSERT INTO proposal (id, project_id, vendor_id, no_bid_reason, submitted_at, is_government_submitted)
VALUES (1, 1, 1, NULL, now(), NULL);
`

const truncateFixture = `
TRUNCATE TABLE project_user_downloads, project_vendor_user_subscriptions, proposal,
    "user", vendor, project, organization RESTART IDENTITY CASCADE`

func SeedEngagement(ctx context.Context, db Execer) error {
	if err := TruncateEngagement(ctx, db); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, EngagementFixture); err != nil {
		return fmt.Errorf("seed engagement fixture: %w", err)
	}
	return nil
}

func TruncateEngagement(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, truncateFixture); err != nil {
		return fmt.Errorf("truncate engagement tables: %w", err)
	}
	return nil
}
