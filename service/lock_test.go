package service

import (
	"context"
	"testing"
	"time"

	"hostel_manager/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return db, mock
}

func TestFindRoomLocksRowOnPostgres(t *testing.T) {
	db, mock := newMockPostgres(t)
	c := &core{db: db, log: zap.NewNop()}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE "rooms"."id" = \$1 ORDER BY "rooms"."id" LIMIT \$2 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "room_number", "capacity"}).
			AddRow(7, now, now, "101", 2))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		room, err := c.findRoom(tx, 7, true)
		if err != nil {
			return err
		}
		assert.Equal(t, "101", room.RoomNumber)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRoomWithoutLock(t *testing.T) {
	db, mock := newMockPostgres(t)
	c := &core{db: db, log: zap.NewNop()}

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE "rooms"."id" = \$1 ORDER BY "rooms"."id" LIMIT \$2$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := c.findRoom(db, 7, false)
	assert.True(t, IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

const (
	lockRoomSQL      = `SELECT \* FROM "rooms" WHERE "rooms"."id" = \$1 ORDER BY "rooms"."id" LIMIT \$2 FOR UPDATE`
	lockStudentSQL   = `SELECT \* FROM "students" WHERE "students"."id" = \$1 ORDER BY "students"."id" LIMIT \$2 FOR UPDATE`
	lockRequestSQL   = `SELECT \* FROM "room_booking_requests" WHERE "room_booking_requests"."id" = \$1 ORDER BY "room_booking_requests"."id" LIMIT \$2 FOR UPDATE`
	countInRoomSQL   = `SELECT count\(\*\) FROM "students" WHERE room_id = \$1`
	assignStudentSQL = `UPDATE "students" SET "room_id"=`
)

func roomRow(id uint, number string, capacity int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "room_number", "capacity"}).
		AddRow(id, now, now, number, capacity)
}

func studentRow(id, userID uint, roomID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "user_id", "room_id"}).
		AddRow(id, now, now, userID, roomID)
}

func countRow(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestAllocateLocksRoomBeforeCounting(t *testing.T) {
	db, mock := newMockPostgres(t)
	svc := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRow(7, "101", 2))
	mock.ExpectQuery(lockStudentSQL).WillReturnRows(studentRow(3, 9, nil))
	mock.ExpectQuery(countInRoomSQL).WillReturnRows(countRow(1))
	mock.ExpectExec(assignStudentSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countInRoomSQL).WillReturnRows(countRow(2))
	mock.ExpectCommit()

	occ, err := svc.Allocation.Allocate(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, occ.Assigned)
	assert.True(t, occ.Occupied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateFullRoomRollsBack(t *testing.T) {
	db, mock := newMockPostgres(t)
	svc := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRow(7, "101", 2))
	mock.ExpectQuery(lockStudentSQL).WillReturnRows(studentRow(3, 9, nil))
	mock.ExpectQuery(countInRoomSQL).WillReturnRows(countRow(2))
	mock.ExpectRollback()

	_, err := svc.Allocation.Allocate(context.Background(), 7, 3)
	assert.True(t, IsCapacity(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveLocksRequestRoomStudent(t *testing.T) {
	db, mock := newMockPostgres(t)
	now := time.Now()
	svc := New(db, zap.NewNop(), WithClock(func() time.Time { return now }))

	mock.ExpectBegin()
	mock.ExpectQuery(lockRequestSQL).WillReturnRows(
		sqlmock.NewRows([]string{"id", "student_id", "room_id", "status", "created_at", "resolved_at", "admin_remarks"}).
			AddRow(5, 3, 7, "PENDING", now, nil, nil))
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRow(7, "101", 2))
	mock.ExpectQuery(lockStudentSQL).WillReturnRows(studentRow(3, 9, nil))
	mock.ExpectQuery(countInRoomSQL).WillReturnRows(countRow(0))
	mock.ExpectExec(assignStudentSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "room_booking_requests" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var changed []model.Occupancy
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = svc.Bookings.resolveLocked(tx, 5, model.BookingApproved, nil)
		return err
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, uint(7), changed[0].RoomID)
	assert.EqualValues(t, 1, changed[0].Assigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRoomLocksRequestsFirst(t *testing.T) {
	db, mock := newMockPostgres(t)
	svc := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .*id.* FROM "room_booking_requests" WHERE room_id = \$1 ORDER BY id FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRow(7, "101", 2))
	mock.ExpectExec(assignStudentSQL).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "room_booking_requests" WHERE room_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "maintenance_requests" WHERE room_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "rooms" WHERE "rooms"."id" = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Rooms.DeleteRoom(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentLocksRequestsFirst(t *testing.T) {
	db, mock := newMockPostgres(t)
	svc := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .*id.* FROM "room_booking_requests" WHERE student_id = \$1 ORDER BY id FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(lockStudentSQL).WillReturnRows(studentRow(3, 9, 7))
	mock.ExpectExec(`DELETE FROM "room_booking_requests" WHERE student_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "maintenance_requests" WHERE student_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "students" WHERE "students"."id" = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE "rooms"."id" = \$1 ORDER BY "rooms"."id" LIMIT \$2$`).
		WillReturnRows(roomRow(7, "101", 2))
	mock.ExpectQuery(countInRoomSQL).WillReturnRows(countRow(0))
	mock.ExpectCommit()

	require.NoError(t, svc.Students.DeleteStudent(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
