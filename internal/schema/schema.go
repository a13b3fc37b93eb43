// AngelaMos | 2026
// schema.go

// Package schema creates the relational schema and seeds the table
// registry. Every statement is idempotent, so Apply runs on each boot.
package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ActiveSlotIndex is the partial unique index that guarantees at most one
// pending or confirmed reservation per table, date and time.
const ActiveSlotIndex = "reservations_active_slot_key"

func Apply(ctx context.Context, db sqlx.ExecerContext) error {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, seedTables); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}

	return nil
}

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    id             UUID PRIMARY KEY,
    name           TEXT NOT NULL,
    email          TEXT NOT NULL UNIQUE,
    password_hash  TEXT NOT NULL,
    phone          TEXT,
    role           TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    monthly_points INTEGER NOT NULL DEFAULT 0,
    total_points   INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_monthly_points
    ON users (monthly_points DESC, name ASC) WHERE monthly_points > 0;

CREATE TABLE IF NOT EXISTS dining_tables (
    id       UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    number   INTEGER NOT NULL UNIQUE,
    capacity INTEGER NOT NULL CHECK (capacity > 0),
    location TEXT NOT NULL DEFAULT '',
    active   BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS reservations (
    id               UUID PRIMARY KEY,
    user_id          UUID NOT NULL REFERENCES users(id),
    table_id         UUID NOT NULL REFERENCES dining_tables(id),
    reservation_date DATE NOT NULL,
    reservation_time VARCHAR(5) NOT NULL,
    party_size       INTEGER NOT NULL CHECK (party_size > 0),
    notes            TEXT NOT NULL DEFAULT '',
    status           TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'finalized', 'cancelled')),
    points_awarded   INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS reservations_active_slot_key
    ON reservations (table_id, reservation_date, reservation_time)
    WHERE status IN ('pending', 'confirmed');

CREATE INDEX IF NOT EXISTS idx_reservations_user
    ON reservations (user_id, reservation_date DESC, reservation_time DESC);

CREATE TABLE IF NOT EXISTS reviews (
    id             UUID PRIMARY KEY,
    reservation_id UUID NOT NULL UNIQUE REFERENCES reservations(id),
    user_id        UUID NOT NULL REFERENCES users(id),
    rating         INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comment        TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS points_ledger (
    id                UUID PRIMARY KEY,
    user_id           UUID NOT NULL REFERENCES users(id),
    action            TEXT NOT NULL,
    points            INTEGER NOT NULL,
    reference_id      UUID NOT NULL,
    reference_type    TEXT NOT NULL CHECK (reference_type IN ('reservation', 'review')),
    competition_month DATE NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_points_ledger_user_month
    ON points_ledger (user_id, competition_month, created_at DESC);

CREATE TABLE IF NOT EXISTS monthly_winners (
    id                UUID PRIMARY KEY,
    user_id           UUID NOT NULL REFERENCES users(id),
    user_name         TEXT NOT NULL,
    competition_month DATE NOT NULL UNIQUE,
    points_total      INTEGER NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const seedTables = `
INSERT INTO dining_tables (number, capacity, location) VALUES
    (1, 2, 'Janela'),
    (2, 2, 'Janela'),
    (3, 4, 'Salão principal'),
    (4, 4, 'Salão principal'),
    (5, 4, 'Salão principal'),
    (6, 6, 'Salão principal'),
    (7, 6, 'Varanda'),
    (8, 8, 'Varanda'),
    (9, 10, 'Área VIP'),
    (10, 2, 'Balcão')
ON CONFLICT (number) DO NOTHING;
`
