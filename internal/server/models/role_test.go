package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_TextRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin} {
		b, err := json.Marshal(r)
		require.NoError(t, err)

		var got Role
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, r, got)
	}
}

func TestRole_Invalid(t *testing.T) {
	var zero Role
	assert.False(t, zero.Valid())

	_, err := json.Marshal(zero)
	assert.Error(t, err)

	var r Role
	assert.Error(t, json.Unmarshal([]byte(`"ROOT"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`"admin"`), &r), "role names are case-sensitive")

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_Scan(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan("ADMIN"))
	assert.Equal(t, RoleAdmin, r)

	require.NoError(t, r.Scan([]byte("USER")))
	assert.Equal(t, RoleUser, r)

	assert.Error(t, r.Scan(int64(1)))

	v, err := RoleAdmin.Value()
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", v)
}
