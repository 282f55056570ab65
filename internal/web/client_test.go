package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Requests(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		var body map[string]string
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/register":
			assert.Equal(t, map[string]string{"username": "alice", "email": "a@example.com", "password": "longpw12"}, body)
			_, _ = w.Write([]byte(`{"email":"a@example.com"}`))
		case "/v1/activate":
			assert.Equal(t, "code-1", body["activation_code"])
			_, _ = w.Write([]byte(`{"email":"a@example.com"}`))
		case "/v1/login":
			assert.Equal(t, "a@example.com", body["email"])
			_, _ = w.Write([]byte(`{"email":"a@example.com","token":"tok-1"}`))
		case "/v1/cookie":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"email":"a@example.com"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/v1/", nil)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "a@example.com", "longpw12"))
	require.NoError(t, client.Activate(ctx, "code-1"))
	token, err := client.Login(ctx, "a@example.com", "longpw12")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	email, err := client.SessionCheck(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)

	assert.Equal(t, []string{
		"POST /v1/register",
		"PUT /v1/activate",
		"GET /v1/login",
		"GET /v1/cookie",
	}, got)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/login":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Password is incorrect.","code":"INVALID_PASSWORD"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/v1", nil)

	_, err := client.Login(context.Background(), "a@example.com", "wrongpw12")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Password is incorrect.", apiErr.Message)
	assert.Equal(t, "INVALID_PASSWORD", apiErr.Code)

	err = client.Activate(context.Background(), "code")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).SessionCheck(context.Background(), "tok")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "API is unreachable", apiMessage(err))
}
