package service

import (
	"context"
	"fmt"

	"hostel_manager/constants"
	"hostel_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StudentDirectory owns student records and their optional room link.
type StudentDirectory struct {
	*core
}

func (d *StudentDirectory) ensureTx(tx *gorm.DB, user model.User) (*model.Student, error) {
	if user.Role != constants.ROLE_STUDENT {
		return nil, &ValidationError{Field: "userId", Message: "user is not a student"}
	}
	// Concurrent first lookups for the same user race on the unique user_id index;
	// the loser's insert is a no-op and both read the surviving row.
	if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&model.Student{UserID: user.ID}).Error; err != nil {
		return nil, fmt.Errorf("create student for user %d: %w", user.ID, err)
	}
	var student model.Student
	if err := tx.Where("user_id = ?", user.ID).First(&student).Error; err != nil {
		return nil, fmt.Errorf("load student for user %d: %w", user.ID, err)
	}
	student.User = user
	return &student, nil
}

// EnsureStudentForUser returns the user's student record, creating an unhoused one if missing.
func (d *StudentDirectory) EnsureStudentForUser(ctx context.Context, userID uint) (*model.Student, error) {
	db := d.db.WithContext(ctx)
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user", userID)
	}
	if user.Role != constants.ROLE_STUDENT {
		return nil, &ValidationError{Field: "userId", Message: "user is not a student"}
	}
	var existing model.Student
	err := db.Where("user_id = ?", userID).Limit(1).Find(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("load student for user %d: %w", userID, err)
	}
	if existing.ID != 0 {
		existing.User = user
		return &existing, nil
	}
	student, err := d.ensureTx(db, user)
	if err != nil {
		return nil, err
	}
	d.log.Info("student record created", zap.Uint("userId", userID), zap.Uint("studentId", student.ID))
	return student, nil
}

// Profile is the student's own view, backfilling the record when needed.
func (d *StudentDirectory) Profile(ctx context.Context, caller model.Caller) (*model.StudentView, error) {
	student, err := d.EnsureStudentForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return d.GetStudent(ctx, student.ID)
}

// EnsureStudentsForAllUsers backfills a student record for every STUDENT user and lists them all.
func (d *StudentDirectory) EnsureStudentsForAllUsers(ctx context.Context) ([]model.StudentView, error) {
	db := d.db.WithContext(ctx)
	var users []model.User
	err := db.Where("role = ?", constants.ROLE_STUDENT).
		Where("id NOT IN (?)", db.Model(&model.Student{}).Select("user_id")).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("find users without student record: %w", err)
	}
	for _, u := range users {
		if _, err := d.ensureTx(db, u); err != nil {
			return nil, err
		}
	}
	if len(users) > 0 {
		d.log.Info("backfilled student records", zap.Int("count", len(users)))
	}
	return d.ListStudents(ctx)
}

func (d *StudentDirectory) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]model.StudentView, error) {
	db := d.db.WithContext(ctx)
	var students []model.Student
	if err := scope(db.Preload("User").Preload("Room")).Order("id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	counts, err := d.assignedCounts(db)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	out := make([]model.StudentView, 0, len(students))
	for _, s := range students {
		v, err := studentView(s, counts)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (d *StudentDirectory) ListStudents(ctx context.Context) ([]model.StudentView, error) {
	return d.list(ctx, func(q *gorm.DB) *gorm.DB { return q })
}

func (d *StudentDirectory) ListUnhousedStudents(ctx context.Context) ([]model.StudentView, error) {
	return d.list(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("room_id IS NULL") })
}

func (d *StudentDirectory) GetStudent(ctx context.Context, id uint) (*model.StudentView, error) {
	db := d.db.WithContext(ctx)
	var student model.Student
	if err := db.Preload("User").Preload("Room").First(&student, id).Error; err != nil {
		return nil, notFound(err, "student", id)
	}
	counts := map[uint]int64{}
	if student.Room != nil {
		n, err := d.countAssigned(db, student.Room.ID)
		if err != nil {
			return nil, fmt.Errorf("count students in room %d: %w", student.Room.ID, err)
		}
		counts[student.Room.ID] = n
	}
	return studentView(student, counts)
}

// GetStudentsInRoom returns the students currently assigned to a room, in no particular order.
func (d *StudentDirectory) GetStudentsInRoom(ctx context.Context, roomID uint) ([]model.Student, error) {
	db := d.db.WithContext(ctx)
	if _, err := d.findRoom(db, roomID, false); err != nil {
		return nil, err
	}
	var students []model.Student
	if err := db.Preload("User").Where("room_id = ?", roomID).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("load students of room %d: %w", roomID, err)
	}
	return students, nil
}

// UnassignStudent clears the student's room. Unhoused students are left as they are.
func (d *StudentDirectory) UnassignStudent(ctx context.Context, studentID uint) error {
	var changed *model.Occupancy
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, err := d.findStudent(tx, studentID, true)
		if err != nil {
			return err
		}
		if !student.Housed() {
			return nil
		}
		room, err := d.findRoom(tx, *student.RoomID, false)
		if err != nil {
			return err
		}
		if err := tx.Model(student).Update("room_id", nil).Error; err != nil {
			return fmt.Errorf("unassign student %d: %w", studentID, err)
		}
		occ, err := d.occupancy(tx, *room)
		if err != nil {
			return err
		}
		changed = &occ
		return nil
	})
	if err != nil {
		return err
	}
	if changed != nil {
		d.publish(ctx, "student_unassigned", *changed)
	}
	return nil
}

// DeleteStudent removes the student along with their booking requests and maintenance tickets.
func (d *StudentDirectory) DeleteStudent(ctx context.Context, id uint) error {
	var changed *model.Occupancy
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.lockRequests(tx, "student_id = ?", id); err != nil {
			return err
		}
		student, err := d.findStudent(tx, id, true)
		if err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.RoomBookingRequest{}).Error; err != nil {
			return fmt.Errorf("delete booking requests: %w", err)
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.MaintenanceRequest{}).Error; err != nil {
			return fmt.Errorf("delete maintenance requests: %w", err)
		}
		if err := tx.Delete(&model.Student{}, id).Error; err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
		if student.Housed() {
			room, err := d.findRoom(tx, *student.RoomID, false)
			if err != nil {
				return err
			}
			occ, err := d.occupancy(tx, *room)
			if err != nil {
				return err
			}
			changed = &occ
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.log.Info("student deleted", zap.Uint("studentId", id))
	if changed != nil {
		d.publish(ctx, "student_deleted", *changed)
	}
	return nil
}
