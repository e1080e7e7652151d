package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farekit/transit-service/internal/domain"
)

// CardRepository defines persistence access for transit cards.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	Update(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	GetByUserAndNumber(ctx context.Context, userID, number string) (*domain.Card, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Card, error)
	ListActiveByType(ctx context.Context, cardType domain.CardType) ([]*domain.Card, error)
}

type cardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository returns a Postgres-backed implementation.
func NewCardRepository(pool *pgxpool.Pool) CardRepository {
	return &cardRepository{pool: pool}
}

func (r *cardRepository) Create(ctx context.Context, card *domain.Card) error {
	const query = `
        INSERT INTO cards (id, number, holder_name, active, type, user_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		card.ID,
		card.Number,
		card.HolderName,
		card.Active,
		card.Type,
		card.UserID,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
}

func (r *cardRepository) Update(ctx context.Context, card *domain.Card) error {
	const query = `
        UPDATE cards SET holder_name=$1, active=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, card.HolderName, card.Active, card.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	const query = `
        SELECT id, number, holder_name, active, type, user_id, created_at, updated_at
        FROM cards WHERE id=$1`

	return scanCard(r.pool.QueryRow(ctx, query, id))
}

func (r *cardRepository) GetByUserAndNumber(ctx context.Context, userID, number string) (*domain.Card, error) {
	const query = `
        SELECT id, number, holder_name, active, type, user_id, created_at, updated_at
        FROM cards WHERE user_id=$1 AND number=$2`

	return scanCard(r.pool.QueryRow(ctx, query, userID, number))
}

func (r *cardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Card, error) {
	const query = `
        SELECT id, number, holder_name, active, type, user_id, created_at, updated_at
        FROM cards WHERE user_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

func (r *cardRepository) ListActiveByType(ctx context.Context, cardType domain.CardType) ([]*domain.Card, error) {
	const query = `
        SELECT id, number, holder_name, active, type, user_id, created_at, updated_at
        FROM cards WHERE active=TRUE AND type=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, cardType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var card domain.Card
	if err := row.Scan(
		&card.ID,
		&card.Number,
		&card.HolderName,
		&card.Active,
		&card.Type,
		&card.UserID,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &card, nil
}

func collectCards(rows pgx.Rows) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.Number,
			&card.HolderName,
			&card.Active,
			&card.Type,
			&card.UserID,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, &card)
	}
	return cards, rows.Err()
}
