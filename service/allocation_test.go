package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"hostel_manager/model"
	"hostel_manager/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateUntilFull(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	room, err := svc.Rooms.CreateRoom(ctx, "101", 2)
	require.NoError(t, err)
	s1 := testutil.CreateStudent(t, db, "s1")
	s2 := testutil.CreateStudent(t, db, "s2")
	s3 := testutil.CreateStudent(t, db, "s3")

	occ, err := svc.Allocation.Allocate(ctx, room.ID, s1.ID)
	require.NoError(t, err)
	assert.False(t, occ.Occupied)

	occ, err = svc.Allocation.Allocate(ctx, room.ID, s2.ID)
	require.NoError(t, err)
	assert.True(t, occ.Occupied)
	assert.EqualValues(t, 2, occ.Assigned)

	_, err = svc.Allocation.Allocate(ctx, room.ID, s3.ID)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, room.ID, capErr.RoomID)
	assert.EqualValues(t, 2, capErr.Assigned)

	events := rec.eventsFor(room.ID)
	require.Len(t, events, 3)
	assert.True(t, events[2].Occupancy.Occupied)
}

func TestAllocateSameRoomIsNoop(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	room := testutil.CreateRoom(t, db, "1", 1)
	s := testutil.CreateStudent(t, db, "s")

	_, err := svc.Allocation.Allocate(ctx, room.ID, s.ID)
	require.NoError(t, err)
	occ, err := svc.Allocation.Allocate(ctx, room.ID, s.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, occ.Assigned)
	assert.Len(t, rec.eventsFor(room.ID), 1)
}

func TestAllocateMovesStudent(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	from := testutil.CreateRoom(t, db, "1", 2)
	to := testutil.CreateRoom(t, db, "2", 2)
	s := testutil.CreateStudent(t, db, "s")
	testutil.Assign(t, db, s, from)

	_, err := svc.Allocation.Allocate(ctx, to.ID, s.ID)
	require.NoError(t, err)
	assert.Zero(t, testutil.CountInRoom(t, db, from.ID))
	assert.EqualValues(t, 1, testutil.CountInRoom(t, db, to.ID))

	events := rec.eventsFor(from.ID)
	require.Len(t, events, 1)
	assert.Zero(t, events[0].Occupancy.Assigned)

	events = rec.eventsFor(to.ID)
	require.Len(t, events, 1)
	assert.EqualValues(t, 1, events[0].Occupancy.Assigned)
}

func TestAllocateUnknownIDs(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	room := testutil.CreateRoom(t, db, "1", 1)
	s := testutil.CreateStudent(t, db, "s")

	_, err := svc.Allocation.Allocate(ctx, 404, s.ID)
	assert.True(t, IsNotFound(err))
	_, err = svc.Allocation.Allocate(ctx, room.ID, 404)
	assert.True(t, IsNotFound(err))
}

func TestDeallocate(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	room := testutil.CreateRoom(t, db, "1", 3)
	for _, n := range []string{"a", "b"} {
		testutil.Assign(t, db, testutil.CreateStudent(t, db, n), room)
	}

	occ, err := svc.Allocation.Deallocate(ctx, room.ID)
	require.NoError(t, err)
	assert.Zero(t, occ.Assigned)
	assert.False(t, occ.Occupied)
	assert.Zero(t, testutil.CountInRoom(t, db, room.ID))

	_, err = svc.Allocation.Deallocate(ctx, room.ID)
	assert.NoError(t, err)

	_, err = svc.Allocation.Deallocate(ctx, 999)
	assert.True(t, IsNotFound(err))
}

func TestDeallocateStudent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	room := testutil.CreateRoom(t, db, "1", 2)
	other := testutil.CreateRoom(t, db, "2", 2)
	s := testutil.CreateStudent(t, db, "s")
	testutil.Assign(t, db, s, room)

	_, err := svc.Allocation.DeallocateStudent(ctx, other.ID, s.ID)
	assert.True(t, IsConflict(err))

	occ, err := svc.Allocation.DeallocateStudent(ctx, room.ID, s.ID)
	require.NoError(t, err)
	assert.Zero(t, occ.Assigned)

	_, err = svc.Allocation.DeallocateStudent(ctx, room.ID, s.ID)
	assert.True(t, IsConflict(err))

	_, err = svc.Allocation.DeallocateStudent(ctx, room.ID, 999)
	assert.True(t, IsNotFound(err))
}

func TestConcurrentAllocateLastSeats(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	const n, free = 12, 3
	room := testutil.CreateRoom(t, db, "hot", free+1)
	testutil.Assign(t, db, testutil.CreateStudent(t, db, "resident"), room)

	students := make([]model.Student, n)
	for i := range students {
		students[i] = testutil.CreateStudent(t, db, "s")
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range students {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Allocation.Allocate(ctx, room.ID, students[i].ID)
		}(i)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case IsCapacity(err):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, free, ok)
	assert.Equal(t, n-free, full)
	assert.EqualValues(t, free+1, testutil.CountInRoom(t, db, room.ID))
}

func TestRandomOperationsNeverExceedCapacity(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	var rooms []model.Room
	for i, c := range []int{1, 2, 3} {
		rooms = append(rooms, testutil.CreateRoom(t, db, string(rune('A'+i)), c))
	}
	var students []model.Student
	for i := 0; i < 8; i++ {
		students = append(students, testutil.CreateStudent(t, db, "s"))
	}

	for step := 0; step < 300; step++ {
		room := rooms[rng.Intn(len(rooms))]
		student := students[rng.Intn(len(students))]
		var err error
		switch rng.Intn(10) {
		case 0:
			_, err = svc.Allocation.Deallocate(ctx, room.ID)
		case 1, 2:
			_, err = svc.Allocation.DeallocateStudent(ctx, room.ID, student.ID)
		case 3:
			err = svc.Rooms.DeleteRoom(ctx, room.ID)
			if err == nil {
				rooms = append(rooms, testutil.CreateRoom(t, db, room.RoomNumber, room.Capacity))
				for i := range rooms {
					if rooms[i].ID == room.ID {
						rooms = append(rooms[:i], rooms[i+1:]...)
						break
					}
				}
			}
		default:
			_, err = svc.Allocation.Allocate(ctx, room.ID, student.ID)
		}
		if err != nil && !IsCapacity(err) && !IsConflict(err) {
			t.Fatalf("step %d: %v", step, err)
		}

		for _, r := range rooms {
			assert.LessOrEqual(t, testutil.CountInRoom(t, db, r.ID), int64(r.Capacity), "room %s at step %d", r.RoomNumber, step)
		}
	}
}
