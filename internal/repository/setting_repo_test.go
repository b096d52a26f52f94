package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSettingSQLite_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"sensor", "max_value"}).
		AddRow("P1", 7.5).
		AddRow("T3", 90.0)
	mock.ExpectQuery(regexp.QuoteMeta(selectSettingsSQL)).WillReturnRows(rows)

	got, err := NewSettingSQLite(db).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got["P1"] != 7.5 || got["T3"] != 90 {
		t.Fatalf("unexpected settings: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSettingSQLite_List_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectSettingsSQL)).WillReturnError(errors.New("locked"))

	if _, err := NewSettingSQLite(db).List(context.Background()); err == nil || !strings.Contains(err.Error(), "select settings") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSettingSQLite_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(upsertSettingSQL)).
		WithArgs("P2", 6.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertSettingSQL)).
		WithArgs("P2", 9.0, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	repo := NewSettingSQLite(db)
	if err := repo.Upsert(context.Background(), "P2", 6.5); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(context.Background(), "P2", 9); err == nil || !strings.Contains(err.Error(), `upsert setting "P2"`) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
