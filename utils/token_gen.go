package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tutorcenter/scheduler/models"
)

var (
	salt    = []byte("tutorcenter.scheduler.utils.token_gen")
	NowFunc = time.Now // mockable

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

var tsEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TokenGenerator issues the links sent for account activation and password
// reset. A token is bound to the user's password hash, last login and e-mail,
// so it dies as soon as any of them changes.
type TokenGenerator struct {
	Secret  []byte
	Timeout time.Duration
}

func NewTokenGenerator(secret string, timeout time.Duration) *TokenGenerator {
	return &TokenGenerator{Secret: []byte(secret), Timeout: timeout}
}

// EncodeUID base64 encodes given User ID
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (g *TokenGenerator) MakeToken(usr models.User) (string, error) {
	return g.makeTokenWithTimestamp(usr, secondsSince2001(NowFunc()))
}

func (g *TokenGenerator) CheckToken(usr models.User, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}

	data, err := tsEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	// check that token has not been tampered with
	expected, err := g.makeTokenWithTimestamp(usr, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return ErrInvalidToken
	}

	if secondsSince2001(NowFunc())-ts > int64(g.Timeout/time.Second) {
		return ErrTokenExpired
	}
	return nil
}

func (g *TokenGenerator) makeTokenWithTimestamp(usr models.User, ts int64) (string, error) {
	tsB32 := tsEncoding.EncodeToString([]byte(strconv.FormatInt(ts, 10)))
	sig, err := g.sign(hashValue(usr, ts))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", tsB32, sig), nil
}

func (g *TokenGenerator) sign(val []byte) (string, error) {
	key := sha256.Sum256(append(append([]byte{}, salt...), g.Secret...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func hashValue(usr models.User, ts int64) []byte {
	var val bytes.Buffer
	val.WriteString(strconv.FormatUint(uint64(usr.ID), 10))
	val.WriteString(usr.Password)
	if usr.LastLogin != nil {
		val.WriteString(usr.LastLogin.UTC().Truncate(time.Second).Format(time.RFC3339))
	}
	val.WriteString(strconv.FormatInt(ts, 10))
	val.WriteString(usr.Email)
	return val.Bytes()
}

func secondsSince2001(t time.Time) int64 {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int64(t.Sub(ref) / time.Second)
}
