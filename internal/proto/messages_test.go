package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestAuthResponse_JSONShape(t *testing.T) {
	r := AuthResponse{
		User:    User{ID: "u1", Email: "a@x.com", FullName: "Ann"},
		Session: &Session{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1700000000},
	}

	b, err := protojson.Marshal(r.Struct())
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"user": {"id": "u1", "email": "a@x.com", "full_name": "Ann", "created_at": null},
		"session": {"access_token": "a", "refresh_token": "r", "expires_at": 1700000000}
	}`, string(b))

	assert.Equal(t, r, AuthResponseFromStruct(r.Struct()))
}

func TestAuthResponse_NullSession(t *testing.T) {
	r := AuthResponse{User: User{ID: "u1", CreatedAt: "2024-01-02T03:04:05Z"}}

	got := AuthResponseFromStruct(r.Struct())
	assert.Nil(t, got.Session)
	assert.Equal(t, "2024-01-02T03:04:05Z", got.User.CreatedAt)
}

func TestFromStruct_ToleratesMissingAndMistypedFields(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"email": 42.0, "password": "pw"})
	assert.NoError(t, err)

	assert.Equal(t, LoginRequest{Password: "pw"}, LoginRequestFromStruct(s))
	assert.Equal(t, RefreshRequest{}, RefreshRequestFromStruct(nil))
	assert.Equal(t, AuthResponse{}, AuthResponseFromStruct(&structpb.Struct{}))
}
