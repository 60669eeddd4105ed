// Package testutil builds throwaway databases for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"hostel_manager/constants"
	"hostel_manager/database"
	"hostel_manager/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewDB opens a migrated in-memory SQLite database. It is limited to one connection,
// so concurrent transactions queue behind each other.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name, role string) model.User {
	t.Helper()
	n := seq.Add(1)
	user := model.User{
		Name:     name,
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateStudent creates a STUDENT user with an unhoused student record.
func CreateStudent(t testing.TB, db *gorm.DB, name string) model.Student {
	t.Helper()
	user := CreateUser(t, db, name, constants.ROLE_STUDENT)
	student := model.Student{UserID: user.ID}
	require.NoError(t, db.Create(&student).Error)
	student.User = user
	return student
}

func CreateRoom(t testing.TB, db *gorm.DB, number string, capacity int) model.Room {
	t.Helper()
	room := model.Room{RoomNumber: number, Capacity: capacity}
	require.NoError(t, db.Create(&room).Error)
	return room
}

// Assign puts a student in a room directly, bypassing capacity checks.
func Assign(t testing.TB, db *gorm.DB, student model.Student, room model.Room) {
	t.Helper()
	require.NoError(t, db.Model(&model.Student{}).Where("id = ?", student.ID).Update("room_id", room.ID).Error)
}

func CountInRoom(t testing.TB, db *gorm.DB, roomID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Student{}).Where("room_id = ?", roomID).Count(&n).Error)
	return n
}
