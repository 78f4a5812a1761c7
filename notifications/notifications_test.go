package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/models"
)

type failingSender struct{}

func (failingSender) Send(context.Context, Message) error { return errors.New("smtp down") }

func useClient(t *testing.T, s Sender) {
	t.Helper()
	prev := EmailClient
	EmailClient = s
	t.Cleanup(func() { EmailClient = prev })
}

func bookedSlot() *models.Availability {
	return &models.Availability{
		ID:        7,
		Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Timeblock: "A",
		Course:    models.Course{Name: "Calculus I", Code: "MATH151"},
		Tutor: &models.Tutor{User: models.User{
			Username: "tina", FirstName: "Tina", LastName: "Turner", Email: "tina@example.edu",
		}},
		BookedBy: &models.Student{User: models.User{
			Username: "sam", FirstName: "Sam", LastName: "Stone", Email: "sam@example.edu",
		}},
	}
}

func TestSendSessionBooked(t *testing.T) {
	outbox := NewConsoleService("noreply@example.edu")
	useClient(t, outbox)

	require.NoError(t, SendSessionBooked(context.Background(), bookedSlot()))

	sent := outbox.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "sam@example.edu", sent[0].ToEmail)
	assert.Equal(t, "Session Booked", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLContent, "Calculus I")
	assert.Contains(t, sent[0].HTMLContent, "Tina Turner")
	assert.Contains(t, sent[0].HTMLContent, "Friday, March 15, 2024")
	assert.Equal(t, "tina@example.edu", sent[1].ToEmail)
	assert.Contains(t, sent[1].HTMLContent, "Sam Stone booked")

	outbox.Reset()
	assert.Empty(t, outbox.Sent())
}

func TestSendSessionBookedRequiresRelations(t *testing.T) {
	useClient(t, NewConsoleService(""))
	slot := bookedSlot()
	slot.BookedBy = nil
	assert.Error(t, SendSessionBooked(context.Background(), slot))
}

func TestSendEmailErrors(t *testing.T) {
	ctx := context.Background()

	useClient(t, nil)
	assert.NoError(t, SendEmail(ctx, Message{ToEmail: "sam@example.edu"}), "unconfigured mail is skipped")

	useClient(t, NewConsoleService(""))
	assert.Error(t, SendEmail(ctx, Message{ToEmail: "not-an-address"}))

	useClient(t, failingSender{})
	err := SendSessionCreated(ctx, bookedSlot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestActivationEmail(t *testing.T) {
	outbox := NewConsoleService("")
	useClient(t, outbox)
	u := &models.User{Username: "newbie", Email: "newbie@example.edu"}

	require.NoError(t, SendActivationEmail(context.Background(), u, "https://tutoring.example.edu/activate/MQ/abc-123"))
	sent := outbox.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "newbie", sent[0].ToName)
	assert.Contains(t, sent[0].HTMLContent, `href="https://tutoring.example.edu/activate/MQ/abc-123"`)

	require.NoError(t, SendPasswordResetEmail(context.Background(), u, "https://x/reset", 72*time.Hour))
	assert.Contains(t, outbox.Sent()[1].HTMLContent, "72h0m0s")
}

func TestBrevoService(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewBrevoService("key-123", "noreply@example.edu", "Tutoring Center")
	svc.URL = srv.URL
	err := svc.Send(context.Background(), Message{
		ToName: "Sam", ToEmail: "sam@example.edu", Subject: "Hello", HTMLContent: "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "sam@example.edu", got.To[0]["email"])
	assert.Equal(t, "Tutoring Center", got.Sender["name"])

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer failing.Close()
	svc.URL = failing.URL
	err = svc.Send(context.Background(), Message{ToEmail: "sam@example.edu"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendgridService(t *testing.T) {
	var got struct {
		From             map[string]string `json:"from"`
		Personalizations []struct {
			To      []map[string]string `json:"to"`
			Subject string              `json:"subject"`
		} `json:"personalizations"`
		Content []map[string]string `json:"content"`
	}
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewSendgridService("sg-key", "noreply@example.edu", "Tutoring Center")
	svc.host = srv.URL
	err := svc.Send(context.Background(), Message{
		ToName: "Sam", ToEmail: "sam@example.edu", Subject: "Hello", HTMLContent: "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, sendgridEndpoint, path)
	assert.Equal(t, "Tutoring Center", got.From["name"])
	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "Hello", got.Personalizations[0].Subject)
	assert.Equal(t, "sam@example.edu", got.Personalizations[0].To[0]["email"])
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0]["type"])

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"message":"forbidden"}]}`))
	}))
	defer failing.Close()
	svc.host = failing.URL
	err = svc.Send(context.Background(), Message{ToEmail: "sam@example.edu", Subject: "x", HTMLContent: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Send(ctx, Message{ToEmail: "sam@example.edu"}), context.Canceled)
}
