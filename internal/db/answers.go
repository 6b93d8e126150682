package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/mock-interview/internal/types"
)

const answerColumns = `id, interview_id, user_id, question, correct_answer, user_answer, feedback, rating, created_at, updated_at`

func scanAnswer(row rowScanner) (*types.UserAnswer, error) {
	var a types.UserAnswer
	if err := row.Scan(&a.ID, &a.InterviewID, &a.UserID, &a.Question, &a.CorrectAnswer,
		&a.UserAnswer, &a.Feedback, &a.Rating, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateUserAnswer stores an evaluated answer. A second answer by the same
// user to the same question of an interview fails with ErrDuplicateAnswer.
func (db *DB) CreateUserAnswer(ctx context.Context, a *types.UserAnswer) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO user_answers (interview_id, user_id, question, correct_answer, user_answer, feedback, rating)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		a.InterviewID, a.UserID, a.Question, a.CorrectAnswer, a.UserAnswer, a.Feedback, a.Rating,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "user_answers_interview_user_question_key") {
			return ErrDuplicateAnswer
		}
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// GetUserAnswer returns the answer of a user to one question, or nil, nil if there is none.
func (db *DB) GetUserAnswer(ctx context.Context, interviewID, userID uuid.UUID, question string) (*types.UserAnswer, error) {
	a, err := scanAnswer(db.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM user_answers
		 WHERE interview_id = $1 AND user_id = $2 AND question = $3`,
		interviewID, userID, question))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return a, nil
}

// ListUserAnswers returns a user's answers for an interview in the order they were given.
func (db *DB) ListUserAnswers(ctx context.Context, interviewID, userID uuid.UUID) ([]types.UserAnswer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM user_answers
		 WHERE interview_id = $1 AND user_id = $2
		 ORDER BY created_at ASC`,
		interviewID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := []types.UserAnswer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// DeleteUserAnswer removes one answer.
func (db *DB) DeleteUserAnswer(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM user_answers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}
