package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"hostel_manager/config"
	"hostel_manager/model"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var bookingDecisionTmpl = template.Must(template.New("booking_decision").Parse(`<p>Hello {{.Name}},</p>
<p>Your request for room <b>{{.RoomNumber}}</b> was <b>{{.Status}}</b>.</p>
{{if .Remarks}}<p>Remarks: {{.Remarks}}</p>{{end}}
<p>Hostel office</p>`))

type bookingDecisionData struct {
	Name       string
	RoomNumber string
	Status     string
	Remarks    string
}

// Mailer sends booking decisions over SMTP. Sending runs in the background so a
// slow mail server never holds up the request that resolved the booking.
type Mailer struct {
	from string
	log  *zap.Logger
	send func(*gomail.Message) error
}

// NewMailer returns nil when SMTP is not configured.
func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	if !cfg.MailEnabled() {
		return nil
	}
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return &Mailer{from: cfg.SMTPFrom, log: log, send: func(m *gomail.Message) error { return d.DialAndSend(m) }}
}

func BookingDecisionMessage(from string, to model.UserDisplay, req model.BookingRequestView) (*gomail.Message, error) {
	data := bookingDecisionData{
		Name:       to.Name,
		RoomNumber: req.RoomNumber,
		Status:     string(req.Status),
	}
	if req.AdminRemarks != nil {
		data.Remarks = *req.AdminRemarks
	}
	var body bytes.Buffer
	if err := bookingDecisionTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render booking decision: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to.Email)
	m.SetHeader("Subject", fmt.Sprintf("Room %s booking %s", req.RoomNumber, req.Status))
	m.SetBody("text/html", body.String())
	return m, nil
}

func (m *Mailer) BookingResolved(_ context.Context, to model.UserDisplay, req model.BookingRequestView) {
	go func() {
		msg, err := BookingDecisionMessage(m.from, to, req)
		if err != nil {
			m.log.Error("build booking mail", zap.Error(err))
			return
		}
		if err := m.send(msg); err != nil {
			m.log.Warn("send booking mail", zap.String("to", to.Email), zap.Uint("requestId", req.ID), zap.Error(err))
			return
		}
		m.log.Info("booking mail sent", zap.String("to", to.Email), zap.Uint("requestId", req.ID))
	}()
}
