package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/models"
)

func TestMakeCheckToken(t *testing.T) {
	gen := NewTokenGenerator("secret", 3*24*time.Hour)

	now := time.Now()
	usr := models.User{ID: 7, Username: "t", Email: "t@test.test", LastLogin: &now}
	require.NoError(t, usr.SetPassword("pwd"))

	validToken, err := gen.MakeToken(usr)
	require.NoError(t, err)

	// generate an expired token
	dayLate := gen.Timeout + 24*time.Hour
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := gen.MakeToken(usr)
	require.NoError(t, err)
	NowFunc = time.Now // reset

	otherKey := NewTokenGenerator("other", gen.Timeout)
	foreignToken, err := otherKey.MakeToken(usr)
	require.NoError(t, err)

	tests := []struct {
		name    string
		usr     models.User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: ErrInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: ErrInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: ErrInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: ErrInvalidToken},
		{name: "tampered signature", usr: usr, token: validToken + "x", wantErr: ErrInvalidToken},
		{name: "other secret", usr: usr, token: foreignToken, wantErr: ErrInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: ErrTokenExpired},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, gen.CheckToken(tt.usr, tt.token))
		})
	}
}

func TestTokenDiesAfterPasswordChange(t *testing.T) {
	gen := NewTokenGenerator("secret", time.Hour)
	usr := models.User{ID: 3, Email: "a@b.c"}
	require.NoError(t, usr.SetPassword("first"))

	token, err := gen.MakeToken(usr)
	require.NoError(t, err)
	require.NoError(t, gen.CheckToken(usr, token))

	require.NoError(t, usr.SetPassword("second"))
	assert.Equal(t, ErrInvalidToken, gen.CheckToken(usr, token))
}

func TestUIDRoundTrip(t *testing.T) {
	uid := EncodeUID(42)
	id, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = DecodeUID("!!not-base64")
	assert.Error(t, err)
}
