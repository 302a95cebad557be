package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kavish/inventory-insight/internal/database"
	"github.com/kavish/inventory-insight/internal/models"
)

func CreateCategory(ctx context.Context, db *sql.DB, name, description string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, database.NewValidationError("name", "category name is required")
	}

	category := &models.Category{}

	query := `
		INSERT INTO categories (name, description, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, name, COALESCE(description, ''), created_at`

	err := db.QueryRowContext(ctx, query, name, description).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

func GetCategory(ctx context.Context, db *sql.DB, id int64) (*models.Category, error) {
	category := &models.Category{}

	query := `
		SELECT id, name, COALESCE(description, ''), created_at
		FROM categories
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return category, nil
}

func ListCategories(ctx context.Context, db *sql.DB) ([]models.Category, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), created_at
		FROM categories
		ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name, description string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, database.NewValidationError("name", "category name is required")
	}

	category := &models.Category{}

	query := `
		UPDATE categories
		SET name = $1, description = $2
		WHERE id = $3
		RETURNING id, name, COALESCE(description, ''), created_at`

	err := db.QueryRowContext(ctx, query, name, description, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCategoryNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category. Products referencing it keep existing
// with a null category via the ON DELETE SET NULL foreign key.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrCategoryNotFound
	}

	return nil
}
