package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"nccportal.org/internal/portal"
)

func TestAttendanceMarkUpsertsEachRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select ano_id from fallin").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"ano_id"}).AddRow("ANO-101"))
	mock.ExpectExec("insert into attendance").
		WithArgs(int64(42), "NCC/2024/001", "ANO-101", "Present", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("insert into attendance").
		WithArgs(int64(42), "NCC/2024/002", "ANO-101", "Absent", "medical leave").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	store := New(db).Attendance()
	err = store.Mark(context.Background(), 42, "ANO-101", []portal.AttendanceMark{
		{RegimentalNumber: "NCC/2024/001", Status: "Present"},
		{RegimentalNumber: "NCC/2024/002", Status: "Absent", Remarks: "medical leave"},
	})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceMarkForeignFallinIsForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select ano_id from fallin").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"ano_id"}).AddRow("ANO-OTHER"))
	mock.ExpectRollback()

	store := New(db).Attendance()
	err = store.Mark(context.Background(), 42, "ANO-101", []portal.AttendanceMark{
		{RegimentalNumber: "NCC/2024/001", Status: "Present"},
	})
	if !errors.Is(err, portal.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceMarkMissingFallinIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select ano_id from fallin").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"ano_id"}))
	mock.ExpectRollback()

	store := New(db).Attendance()
	err = store.Mark(context.Background(), 99, "ANO-101", []portal.AttendanceMark{
		{RegimentalNumber: "NCC/2024/001", Status: "Present"},
	})
	if !errors.Is(err, portal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceMarkRejectsEmptyBatch(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := New(db).Attendance()
	if err := store.Mark(context.Background(), 42, "ANO-101", nil); !errors.Is(err, portal.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
