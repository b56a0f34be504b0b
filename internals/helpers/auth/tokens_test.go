package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer(now time.Time) TokenIssuer {
	return TokenIssuer{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Now:           func() time.Time { return now },
	}
}

func TestIssueAndParse(t *testing.T) {
	now := time.Now()
	iss := testIssuer(now)
	school := uuid.New()
	id := Identity{UserID: uuid.New(), SchoolID: &school, Name: "Bu Rina", Role: "admin", Roles: []string{"admin", "teacher"}}

	access, exp, err := iss.IssueAccess(id)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(15*time.Minute), exp, time.Second)

	claims, err := iss.ParseAccess(access)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id.UserID, uid)
	assert.Equal(t, school.String(), claims.SchoolID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, []string{"admin", "teacher"}, claims.Roles)

	refresh, _, err := iss.IssueRefresh(id)
	require.NoError(t, err)
	_, err = iss.ParseRefresh(refresh)
	require.NoError(t, err)

	// a refresh token is not an access token, and the secrets differ
	_, err = iss.ParseAccess(refresh)
	assert.Error(t, err)
	iss.RefreshSecret = ""
	_, err = iss.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrTokenType)
}

func TestParseExpired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	access, _, err := testIssuer(issued).IssueAccess(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = testIssuer(time.Now()).ParseAccess(access)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	_, _, err := TokenIssuer{}.IssueAccess(Identity{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = TokenIssuer{}.ParseAccess("x.y.z")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestHashToken(t *testing.T) {
	a := HashToken("tok", "s1")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashToken("tok", "s1"))
	assert.NotEqual(t, a, HashToken("tok", "s2"))
}
