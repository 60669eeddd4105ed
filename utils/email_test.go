package utils

import (
	"bytes"
	"context"
	"testing"
	"time"

	"hostel_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

func TestBookingDecisionMessage(t *testing.T) {
	to := model.UserDisplay{Name: "Ann", Email: "ann@example.com"}
	req := model.BookingRequestView{ID: 3, RoomNumber: "101", Status: model.BookingApproved, AdminRemarks: StringPtr("bring <keys>")}

	m, err := BookingDecisionMessage("office@hostel.local", to, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"ann@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Room 101 booking APPROVED"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hello Ann")
	assert.Contains(t, buf.String(), "bring &lt;keys&gt;")
}

func TestMailerSendsInBackground(t *testing.T) {
	sent := make(chan *gomail.Message, 1)
	m := &Mailer{from: "office@hostel.local", log: zap.NewNop(), send: func(msg *gomail.Message) error {
		sent <- msg
		return nil
	}}

	m.BookingResolved(context.Background(), model.UserDisplay{Name: "Ben", Email: "ben@example.com"},
		model.BookingRequestView{ID: 1, RoomNumber: "7", Status: model.BookingRejected})

	select {
	case msg := <-sent:
		assert.Equal(t, []string{"ben@example.com"}, msg.GetHeader("To"))
	case <-time.After(2 * time.Second):
		t.Fatal("mail was not sent")
	}
}
