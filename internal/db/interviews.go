package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/mock-interview/internal/types"
)

const interviewColumns = `id, user_id, position, description, experience, tech_stack, questions, created_at, updated_at`

func scanInterview(row rowScanner) (*types.Interview, error) {
	var iv types.Interview
	var questions []byte
	if err := row.Scan(&iv.ID, &iv.UserID, &iv.Position, &iv.Description, &iv.Experience,
		&iv.TechStack, &questions, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &iv.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions of interview %s: %w", iv.ID, err)
	}
	return &iv, nil
}

func marshalQuestions(questions []types.InterviewQuestion) ([]byte, error) {
	if questions == nil {
		questions = []types.InterviewQuestion{}
	}
	b, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	return b, nil
}

// CreateInterview inserts iv and fills in its ID and timestamps.
func (db *DB) CreateInterview(ctx context.Context, iv *types.Interview) error {
	questions, err := marshalQuestions(iv.Questions)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO interviews (user_id, position, description, experience, tech_stack, questions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		iv.UserID, iv.Position, iv.Description, iv.Experience, iv.TechStack, questions,
	).Scan(&iv.ID, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetInterview retrieves an interview by ID. It returns nil, nil when none matches.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
	iv, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// ListInterviewsByUser returns the interviews of a user, newest first.
func (db *DB) ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	interviews := []types.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// UpdateInterview replaces the form fields and questions of iv and refreshes its updated_at.
// It returns false when the interview does not exist.
func (db *DB) UpdateInterview(ctx context.Context, iv *types.Interview) (bool, error) {
	questions, err := marshalQuestions(iv.Questions)
	if err != nil {
		return false, err
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE interviews
		 SET position = $1, description = $2, experience = $3, tech_stack = $4, questions = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING updated_at`,
		iv.Position, iv.Description, iv.Experience, iv.TechStack, questions, iv.ID,
	).Scan(&iv.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update interview: %w", err)
	}
	return true, nil
}

// DeleteInterview removes an interview and, by cascade, its answers.
func (db *DB) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	return nil
}
