package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"nccportal.org/internal/portal"
)

func TestApproveFlipsFlagAndNotifies(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("update users set is_approved = true").
		WithArgs(int64(5), "ANO-101").
		WillReturnRows(sqlmock.NewRows([]string{"regimental_number"}).AddRow("NCC/2024/001"))
	mock.ExpectExec("insert into notifications").
		WithArgs("NCC/2024/001").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	store := New(db).Cadets()
	if err := store.Approve(context.Background(), 5, "ANO-101"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveAlreadyApprovedIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The UPDATE matches pending rows only; a second approval sees no rows.
	mock.ExpectBegin()
	mock.ExpectQuery("update users set is_approved = true").
		WithArgs(int64(5), "ANO-101").
		WillReturnRows(sqlmock.NewRows([]string{"regimental_number"}))
	mock.ExpectRollback()

	store := New(db).Cadets()
	if err := store.Approve(context.Background(), 5, "ANO-101"); !errors.Is(err, portal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveRollsBackWhenNotificationFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("update users set is_approved = true").
		WithArgs(int64(5), "ANO-101").
		WillReturnRows(sqlmock.NewRows([]string{"regimental_number"}).AddRow("NCC/2024/001"))
	mock.ExpectExec("insert into notifications").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	store := New(db).Cadets()
	if err := store.Approve(context.Background(), 5, "ANO-101"); err == nil {
		t.Fatal("expected error when notification insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveMasterScopeSkipsTenantClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("update users set is_approved = true").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"regimental_number"}).AddRow("NCC/2023/117"))
	mock.ExpectExec("insert into notifications").
		WithArgs("NCC/2023/117").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	store := New(db).Cadets()
	if err := store.Approve(context.Background(), 9, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteForeignTenantIsForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select ano_id from users").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"ano_id"}).AddRow("ANO-101"))
	mock.ExpectRollback()

	store := New(db).Cadets()
	if err := store.Delete(context.Background(), 5, "ANO-OTHER"); !errors.Is(err, portal.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteMissingCadetIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select ano_id from users").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"ano_id"}))
	mock.ExpectRollback()

	store := New(db).Cadets()
	if err := store.Delete(context.Background(), 99, "ANO-101"); !errors.Is(err, portal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteOwnCadetRemovesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select ano_id from users").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"ano_id"}).AddRow("ANO-101"))
	mock.ExpectExec("delete from users").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := New(db).Cadets()
	if err := store.Delete(context.Background(), 5, "ANO-101"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
