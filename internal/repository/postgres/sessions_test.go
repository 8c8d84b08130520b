package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

func TestSessionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	createdAt := time.Now().UTC()
	userAgent := "Mozilla/5.0"
	session := domain.Session{
		ID:        "session-123",
		UserID:    "user-123",
		UserAgent: &userAgent,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(30 * 24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO estate\.sessions`).
		WithArgs(
			session.ID,
			session.UserID,
			session.UserAgent,
			session.CreatedAt,
			session.ExpiresAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	createdAt := time.Now().UTC()
	expiresAt := createdAt.Add(30 * 24 * time.Hour)

	rows := pgxmock.NewRows([]string{"id", "user_id", "user_agent", "created_at", "expires_at"}).
		AddRow("session-1", "user-1", nil, createdAt, expiresAt)

	mock.ExpectQuery(`SELECT id, user_id, user_agent, created_at, expires_at FROM estate\.sessions`).
		WithArgs("session-1").
		WillReturnRows(rows)

	session, err := repo.GetByID(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if session.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", session.UserID)
	}
	if !session.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("expected expiry %v, got %v", expiresAt, session.ExpiresAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_DeleteByIDForUser_NotOwned(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec(`DELETE FROM estate\.sessions`).
		WithArgs("session-1", "intruder").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.DeleteByIDForUser(context.Background(), "session-1", "intruder")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_DeleteAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec(`DELETE FROM estate\.sessions`).
		WithArgs("user-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	count, err := repo.DeleteAllForUser(context.Background(), "user-9")
	if err != nil {
		t.Fatalf("DeleteAllForUser returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 deleted sessions, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
