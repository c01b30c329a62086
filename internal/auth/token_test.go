package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/auth"
)

func TestTokenService_RoundTrip(t *testing.T) {
	now := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	svc := auth.NewTokenService("s3cret", time.Hour).WithClock(func() time.Time { return now })

	token, expires, err := svc.Generate("ana")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)

	subject, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", subject)
}

func TestTokenService_Parse_Rejects(t *testing.T) {
	now := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	svc := auth.NewTokenService("s3cret", time.Hour).WithClock(func() time.Time { return now })

	valid, _, err := svc.Generate("ana")
	require.NoError(t, err)

	tests := []struct {
		name  string
		svc   *auth.TokenService
		token string
	}{
		{name: "Garbage", svc: svc, token: "not.a.token"},
		{name: "WrongSecret", svc: auth.NewTokenService("other", time.Hour).WithClock(func() time.Time { return now }), token: valid},
		{name: "Expired", svc: svc.WithClock(func() time.Time { return now.Add(2 * time.Hour) }), token: valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
