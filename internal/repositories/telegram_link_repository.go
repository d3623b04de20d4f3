package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// linkValidity bounds how long a pairing code stays redeemable. The policy
// lives here so every caller issues codes with the same lifetime.
const linkValidity = 15 * time.Minute

// TelegramLink is a one-shot code an agent sends to the bot to attach
// a Telegram chat to their staff account.
type TelegramLink struct {
	ID            int
	UtilisateurID int
	Code          string
	ExpiresAt     time.Time
	Used          bool
	CreatedAt     time.Time
}

type TelegramLinkRepository interface {
	// Issue stores a fresh pairing code for the agent.
	Issue(ctx context.Context, utilisateurID int, code string) (*TelegramLink, error)
	// Consume redeems a code exactly once. A code that is unknown,
	// already used or past its validity yields sql.ErrNoRows.
	Consume(ctx context.Context, code string) (*TelegramLink, error)
}

type telegramLinkRepository struct{ db *sql.DB }

func NewTelegramLinkRepository(db *sql.DB) TelegramLinkRepository {
	return &telegramLinkRepository{db: db}
}

func (r *telegramLinkRepository) Issue(ctx context.Context, utilisateurID int, code string) (*TelegramLink, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO telegram_links (utilisateur_id, code, expires_at)
		VALUES ($1, $2, NOW() + $3 * INTERVAL '1 second')
		RETURNING id, utilisateur_id, code, expires_at, used, created_at
	`, utilisateurID, code, int(linkValidity.Seconds()))
	return scanTelegramLink(row)
}

func (r *telegramLinkRepository) Consume(ctx context.Context, code string) (*TelegramLink, error) {
	// The WHERE clause carries the whole redeem policy, so a lost race
	// between two redeems surfaces as sql.ErrNoRows for the loser.
	row := r.db.QueryRowContext(ctx, `
		UPDATE telegram_links
		SET used = TRUE
		WHERE code = $1 AND NOT used AND expires_at > NOW()
		RETURNING id, utilisateur_id, code, expires_at, used, created_at
	`, code)
	return scanTelegramLink(row)
}

func scanTelegramLink(row *sql.Row) (*TelegramLink, error) {
	var l TelegramLink
	if err := row.Scan(&l.ID, &l.UtilisateurID, &l.Code, &l.ExpiresAt, &l.Used, &l.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("telegram link: %w", err)
	}
	return &l, nil
}
