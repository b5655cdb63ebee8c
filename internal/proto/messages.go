package proto

import (
	"google.golang.org/protobuf/types/known/structpb"
)

type SignupRequest struct {
	Email    string
	Password string
	FullName string
}

type LoginRequest struct {
	Email    string
	Password string
}

type RefreshRequest struct {
	RefreshToken string
}

// User mirrors the REST user object. CreatedAt is RFC 3339 or "".
type User struct {
	ID        string
	Email     string
	FullName  string
	CreatedAt string
}

type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// AuthResponse carries a nil Session when none was issued.
type AuthResponse struct {
	User    User
	Session *Session
}

func (r SignupRequest) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		"email":     structpb.NewStringValue(r.Email),
		"password":  structpb.NewStringValue(r.Password),
		"full_name": structpb.NewStringValue(r.FullName),
	})
}

func SignupRequestFromStruct(s *structpb.Struct) SignupRequest {
	return SignupRequest{
		Email:    stringField(s, "email"),
		Password: stringField(s, "password"),
		FullName: stringField(s, "full_name"),
	}
}

func (r LoginRequest) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		"email":    structpb.NewStringValue(r.Email),
		"password": structpb.NewStringValue(r.Password),
	})
}

func LoginRequestFromStruct(s *structpb.Struct) LoginRequest {
	return LoginRequest{Email: stringField(s, "email"), Password: stringField(s, "password")}
}

func (r RefreshRequest) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		"refresh_token": structpb.NewStringValue(r.RefreshToken),
	})
}

func RefreshRequestFromStruct(s *structpb.Struct) RefreshRequest {
	return RefreshRequest{RefreshToken: stringField(s, "refresh_token")}
}

func (u User) Struct() *structpb.Struct {
	created := structpb.NewNullValue()
	if u.CreatedAt != "" {
		created = structpb.NewStringValue(u.CreatedAt)
	}
	return newStruct(map[string]*structpb.Value{
		"id":         structpb.NewStringValue(u.ID),
		"email":      structpb.NewStringValue(u.Email),
		"full_name":  structpb.NewStringValue(u.FullName),
		"created_at": created,
	})
}

func UserFromStruct(s *structpb.Struct) User {
	return User{
		ID:        stringField(s, "id"),
		Email:     stringField(s, "email"),
		FullName:  stringField(s, "full_name"),
		CreatedAt: stringField(s, "created_at"),
	}
}

func (r AuthResponse) Struct() *structpb.Struct {
	session := structpb.NewNullValue()
	if r.Session != nil {
		session = structpb.NewStructValue(newStruct(map[string]*structpb.Value{
			"access_token":  structpb.NewStringValue(r.Session.AccessToken),
			"refresh_token": structpb.NewStringValue(r.Session.RefreshToken),
			"expires_at":    structpb.NewNumberValue(float64(r.Session.ExpiresAt)),
		}))
	}
	return newStruct(map[string]*structpb.Value{
		"user":    structpb.NewStructValue(r.User.Struct()),
		"session": session,
	})
}

func AuthResponseFromStruct(s *structpb.Struct) AuthResponse {
	var r AuthResponse
	r.User = UserFromStruct(s.GetFields()["user"].GetStructValue())
	if ss := s.GetFields()["session"].GetStructValue(); ss != nil {
		r.Session = &Session{
			AccessToken:  stringField(ss, "access_token"),
			RefreshToken: stringField(ss, "refresh_token"),
			ExpiresAt:    int64(ss.GetFields()["expires_at"].GetNumberValue()),
		}
	}
	return r
}

func newStruct(fields map[string]*structpb.Value) *structpb.Struct {
	return &structpb.Struct{Fields: fields}
}

// stringField returns "" for missing, null or non-string fields.
func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
