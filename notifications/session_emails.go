package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorcenter/scheduler/models"
)

type accountData struct {
	Name     string
	Username string
	Link     string
	Expiry   string
}

type sessionData struct {
	Name      string
	Course    string
	Tutor     string
	Student   string
	Date      string
	Timeblock string
}

func sendTemplate(ctx context.Context, to *models.User, subject, tmpl string, data interface{}) error {
	html, err := render(tmpl, data)
	if err != nil {
		return err
	}
	return SendEmail(ctx, Message{
		ToName:      to.FullName(),
		ToEmail:     to.Email,
		Subject:     subject,
		HTMLContent: html,
	})
}

func SendActivationEmail(ctx context.Context, user *models.User, link string) error {
	return sendTemplate(ctx, user, "Activate your account", "activate_account", accountData{
		Name:     user.FullName(),
		Username: user.Username,
		Link:     link,
	})
}

func SendPasswordResetEmail(ctx context.Context, user *models.User, link string, expiry time.Duration) error {
	return sendTemplate(ctx, user, "Reset your password", "password_reset", accountData{
		Name:     user.FullName(),
		Username: user.Username,
		Link:     link,
		Expiry:   expiry.String(),
	})
}

// slotData expects the slot with Course, Tutor.User and BookedBy.User loaded.
func slotData(slot *models.Availability) sessionData {
	d := sessionData{
		Course:    slot.Course.Name,
		Date:      slot.Date.Format("Monday, January 2, 2006"),
		Timeblock: models.TimeblockLabel(slot.Timeblock),
	}
	if slot.Tutor != nil {
		d.Tutor = slot.Tutor.User.FullName()
	}
	if slot.BookedBy != nil {
		d.Student = slot.BookedBy.User.FullName()
	}
	return d
}

// SendSessionBooked confirms a booking to the student and then to the tutor.
func SendSessionBooked(ctx context.Context, slot *models.Availability) error {
	if slot.BookedBy == nil || slot.Tutor == nil {
		return fmt.Errorf("slot %d: booking relations not loaded", slot.ID)
	}
	d := slotData(slot)

	d.Name = slot.BookedBy.User.FullName()
	if err := sendTemplate(ctx, &slot.BookedBy.User, "Session Booked", "session_booked", d); err != nil {
		return err
	}
	d.Name = slot.Tutor.User.FullName()
	return sendTemplate(ctx, &slot.Tutor.User, "Session Booked", "session_booked_tutor", d)
}

func SendSessionCreated(ctx context.Context, slot *models.Availability) error {
	if slot.Tutor == nil {
		return fmt.Errorf("slot %d: tutor not loaded", slot.ID)
	}
	d := slotData(slot)
	d.Name = slot.Tutor.User.FullName()
	return sendTemplate(ctx, &slot.Tutor.User, "Session Created", "session_created", d)
}

// SendSessionReminder reminds both parties of a session happening today.
func SendSessionReminder(ctx context.Context, slot *models.Availability) error {
	d := slotData(slot)
	if slot.BookedBy != nil {
		sd := d
		sd.Name, sd.Student = slot.BookedBy.User.FullName(), ""
		if err := sendTemplate(ctx, &slot.BookedBy.User, "Session Reminder", "session_reminder", sd); err != nil {
			return err
		}
	}
	if slot.Tutor != nil {
		td := d
		td.Name, td.Tutor = slot.Tutor.User.FullName(), ""
		if err := sendTemplate(ctx, &slot.Tutor.User, "Session Reminder", "session_reminder", td); err != nil {
			return err
		}
	}
	return nil
}
