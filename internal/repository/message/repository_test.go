package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func TestListByBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db)

	ts := time.Date(2023, 5, 19, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "seq", "from_address", "to_address", "body", "sent_at", "direction", "booking_id", "processed"}).
		AddRow("1", 1, "+39123456789", "+39000000000", "Vorrei prenotare del Paracetamolo", ts, "incoming", "b-1", true).
		AddRow("2", 2, "+39000000000", "+39123456789", "La sua prenotazione è stata confermata.", ts.Add(5*time.Minute), "outgoing", "b-1", true)

	mock.ExpectQuery(`SELECT \* FROM "messages" WHERE booking_id = \$1 ORDER BY sent_at ASC`).
		WithArgs("b-1").
		WillReturnRows(rows)

	msgs, err := repo.ListByBooking(context.Background(), "b-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, "incoming", string(msgs[0].Direction))
	require.NotNil(t, msgs[1].BookingID)
	assert.Equal(t, "b-1", *msgs[1].BookingID)
	assert.Equal(t, int64(2), msgs[1].Seq)

	assert.NoError(t, mock.ExpectationsWereMet())
}
