package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrLoginHashMismatch = errors.New("telegram login: hash mismatch")
	ErrLoginExpired      = errors.New("telegram login: auth_date too old")
)

// LoginMaxAge bounds how old a Login Widget payload may be.
const LoginMaxAge = 24 * time.Hour

// LoginData is the Login Widget payload.
type LoginData struct {
	ID        int64  `json:"id" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" binding:"required"`
	Hash      string `json:"hash" binding:"required"`
}

func (d *LoginData) fields() map[string]string {
	m := map[string]string{
		"id":        strconv.FormatInt(d.ID, 10),
		"auth_date": strconv.FormatInt(d.AuthDate, 10),
	}
	for k, v := range map[string]string{
		"first_name": d.FirstName,
		"last_name":  d.LastName,
		"username":   d.Username,
		"photo_url":  d.PhotoURL,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// LoginHash computes the widget hash: HMAC-SHA256 over the sorted "key=value" lines keyed by SHA256(token).
func LoginHash(botToken string, d *LoginData) string {
	fields := d.fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyLogin(botToken string, d *LoginData, now time.Time) error {
	if botToken == "" {
		return fmt.Errorf("telegram login: bot token not configured")
	}
	if !hmac.Equal([]byte(LoginHash(botToken, d)), []byte(strings.ToLower(d.Hash))) {
		return ErrLoginHashMismatch
	}
	if now.Sub(time.Unix(d.AuthDate, 0)) > LoginMaxAge {
		return ErrLoginExpired
	}
	return nil
}
