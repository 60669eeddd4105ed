package service

import (
	"fmt"

	"hostel_manager/model"

	"github.com/jinzhu/copier"
)

func userDisplay(u model.User) (model.UserDisplay, error) {
	var d model.UserDisplay
	if err := copier.Copy(&d, &u); err != nil {
		return d, fmt.Errorf("map user: %w", err)
	}
	return d, nil
}

func studentSummaries(students []model.Student) ([]model.StudentSummary, error) {
	out := make([]model.StudentSummary, 0, len(students))
	for _, s := range students {
		user, err := userDisplay(s.User)
		if err != nil {
			return nil, err
		}
		out = append(out, model.StudentSummary{ID: s.ID, User: user})
	}
	return out, nil
}

// roomView builds the outward room shape. members may be nil when only counts are wanted.
func roomView(room model.Room, assigned int64, members []model.Student) (*model.RoomView, error) {
	var v model.RoomView
	if err := copier.Copy(&v, &room); err != nil {
		return nil, fmt.Errorf("map room: %w", err)
	}
	occ := model.NewOccupancy(room, assigned)
	v.Assigned = occ.Assigned
	v.Occupied = occ.Occupied
	if members != nil {
		summaries, err := studentSummaries(members)
		if err != nil {
			return nil, err
		}
		v.Students = summaries
	}
	return &v, nil
}

func studentView(s model.Student, counts map[uint]int64) (*model.StudentView, error) {
	user, err := userDisplay(s.User)
	if err != nil {
		return nil, err
	}
	v := &model.StudentView{ID: s.ID, User: user}
	if s.Room != nil {
		room, err := roomView(*s.Room, counts[s.Room.ID], nil)
		if err != nil {
			return nil, err
		}
		v.Room = room
	}
	return v, nil
}

func bookingView(r model.RoomBookingRequest) (*model.BookingRequestView, error) {
	var v model.BookingRequestView
	if err := copier.Copy(&v, &r); err != nil {
		return nil, fmt.Errorf("map booking request: %w", err)
	}
	v.StudentName = r.Student.User.Name
	v.StudentEmail = r.Student.User.Email
	v.RoomNumber = r.Room.RoomNumber
	v.RoomCapacity = r.Room.Capacity
	return &v, nil
}
