package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type gearRepository struct {
	db *sql.DB
}

func NewGearRepository(db *sql.DB) repository.GearRepository {
	return &gearRepository{db: db}
}

func (r *gearRepository) CreateItem(ctx context.Context, item *domain.GearItem) error {
	now := time.Now()
	item.CreatedOn = formatTime(now)
	item.UpdatedOn = formatTime(now)
	return r.db.QueryRowContext(ctx,
		`INSERT INTO gear_items (tag, kind, size, condition, status, notes, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		item.Tag, item.Kind, item.Size, item.Condition, item.Status, item.Notes, now, now).Scan(&item.ID)
}

func (r *gearRepository) GetItemByID(ctx context.Context, id int64) (*domain.GearItem, error) {
	item := &domain.GearItem{}
	var createdOn, updatedOn time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tag, kind, size, condition, status, notes, created_on, updated_on FROM gear_items WHERE id = $1`,
		id).Scan(&item.ID, &item.Tag, &item.Kind, &item.Size, &item.Condition, &item.Status, &item.Notes, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	item.CreatedOn = formatTime(createdOn)
	item.UpdatedOn = formatTime(updatedOn)
	return item, nil
}

func (r *gearRepository) UpdateItem(ctx context.Context, item *domain.GearItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE gear_items SET kind = $1, size = $2, condition = $3, status = $4, notes = $5, updated_on = $6 WHERE id = $7`,
		item.Kind, item.Size, item.Condition, item.Status, item.Notes, time.Now(), item.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gearRepository) ListItems(ctx context.Context, status domain.GearStatus, page, pageSize int32) ([]domain.GearItem, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, tag, kind, size, condition, status, notes, created_on, updated_on FROM gear_items`
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY kind ASC, tag ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.GearItem
	for rows.Next() {
		var item domain.GearItem
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&item.ID, &item.Tag, &item.Kind, &item.Size, &item.Condition, &item.Status,
			&item.Notes, &createdOn, &updatedOn); err != nil {
			return nil, 0, err
		}
		item.CreatedOn = formatTime(createdOn)
		item.UpdatedOn = formatTime(updatedOn)
		items = append(items, item)
	}
	return items, count, rows.Err()
}

// CreateLoan opens the loan and flips the item to LOANED atomically; the item
// row is locked first so two concurrent loans of the same item cannot both win.
func (r *gearRepository) CreateLoan(ctx context.Context, loan *domain.GearLoan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM gear_items WHERE id = $1 FOR UPDATE`, loan.GearItemID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != string(domain.GearStatusAvailable) {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	loan.Status = domain.GearLoanStatusOpen
	loan.CreatedOn = formatTime(now)
	err = tx.QueryRowContext(ctx,
		`INSERT INTO gear_loans (gear_item_id, member_id, due_on, status, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		loan.GearItemID, loan.MemberID, loan.DueOn, loan.Status, now).Scan(&loan.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE gear_items SET status = 'LOANED', updated_on = $1 WHERE id = $2`, now, loan.GearItemID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *gearRepository) CloseLoan(ctx context.Context, loanID int64, returnedOn time.Time) (*domain.GearLoan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	loan := &domain.GearLoan{ID: loanID}
	var dueOn, createdOn time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT gear_item_id, member_id, due_on, status, created_on FROM gear_loans
		 WHERE id = $1 AND status IN ('OPEN', 'OVERDUE') FOR UPDATE`,
		loanID).Scan(&loan.GearItemID, &loan.MemberID, &dueOn, &loan.Status, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE gear_loans SET status = 'RETURNED', returned_on = $1 WHERE id = $2`, returnedOn, loanID)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE gear_items SET status = 'AVAILABLE', updated_on = $1 WHERE id = $2`, returnedOn, loan.GearItemID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	loan.Status = domain.GearLoanStatusReturned
	loan.DueOn = formatTime(dueOn)
	loan.CreatedOn = formatTime(createdOn)
	returned := formatTime(returnedOn)
	loan.ReturnedOn = &returned
	return loan, nil
}

func (r *gearRepository) ListLoansByMember(ctx context.Context, memberID int64, openOnly bool) ([]domain.GearLoan, error) {
	query := `SELECT id, gear_item_id, member_id, due_on, returned_on, status, created_on FROM gear_loans WHERE member_id = $1`
	if openOnly {
		query += ` AND status IN ('OPEN', 'OVERDUE')`
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.GearLoan
	for rows.Next() {
		var loan domain.GearLoan
		var dueOn, createdOn time.Time
		var returnedOn sql.NullTime
		if err := rows.Scan(&loan.ID, &loan.GearItemID, &loan.MemberID, &dueOn, &returnedOn, &loan.Status, &createdOn); err != nil {
			return nil, err
		}
		loan.DueOn = formatTime(dueOn)
		loan.ReturnedOn = formatNullTime(returnedOn)
		loan.CreatedOn = formatTime(createdOn)
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
