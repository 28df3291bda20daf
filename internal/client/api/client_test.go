package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recorded struct {
	method        string
	path          string
	authorization string
	requestID     string
	body          map[string]any
}

func newStubAPI(t *testing.T, last *recorded) *mux.Router {
	t.Helper()
	r := mux.NewRouter()

	capture := func(req *http.Request) {
		*last = recorded{
			method:        req.Method,
			path:          req.URL.Path,
			authorization: req.Header.Get("Authorization"),
			requestID:     req.Header.Get("X-Request-ID"),
		}
		if b, _ := io.ReadAll(req.Body); len(b) > 0 {
			require.NoError(t, json.Unmarshal(b, &last.body))
		}
	}

	r.HandleFunc("/user/login", func(w http.ResponseWriter, req *http.Request) {
		capture(req)
		if last.body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessToken":"T1"}`))
	}).Methods(http.MethodPost)

	r.HandleFunc("/user/signup", func(w http.ResponseWriter, req *http.Request) {
		capture(req)
		if last.body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"email already registered"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)

	r.HandleFunc("/user/getUser", func(w http.ResponseWriter, req *http.Request) {
		capture(req)
		if req.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":7,"name":"Maria da Silva","email":"maria@example.com","cpf":"52998224725"}}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/user/update/{id}", func(w http.ResponseWriter, req *http.Request) {
		capture(req)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPut)

	return r
}

func newTestClient(t *testing.T, tokens TokenSource) (*Client, *recorded) {
	t.Helper()
	last := &recorded{}
	srv := httptest.NewServer(newStubAPI(t, last))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, srv.Client(), tokens, logging.Discard())
	require.NoError(t, err)
	return c, last
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://example.com", nil, nil, nil)
	require.Error(t, err)

	_, err = NewClient("://nope", nil, nil, nil)
	require.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	c, last := newTestClient(t, staticToken(""))

	token, err := c.Login(context.Background(), LoginRequest{EmailOrCpf: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "a@b.com", last.body["emailOrCpf"])
	assert.Empty(t, last.authorization, "no token bound, no header")
	_, err = uuid.Parse(last.requestID)
	assert.NoError(t, err, "request id must be a uuid")
}

func TestLogin_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.Login(context.Background(), LoginRequest{EmailOrCpf: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthorized)

	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusUnauthorized, rerr.Status)
	assert.Equal(t, "invalid credentials", rerr.Message)
	assert.Contains(t, rerr.Error(), "401 Unauthorized: invalid credentials")
}

func TestLogin_EmptyTokenIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client(), nil, nil)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), LoginRequest{EmailOrCpf: "a", Password: "b"})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSignup(t *testing.T) {
	c, last := newTestClient(t, nil)
	ctx := context.Background()

	err := c.Signup(ctx, SignupRequest{Email: "maria@example.com", Name: "Maria", Cpf: "52998224725", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Maria", last.body["name"])

	err = c.Signup(ctx, SignupRequest{Email: "taken@example.com"})
	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusConflict, rerr.Status)
	assert.Equal(t, "email already registered", rerr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestGetUser_SendsTokenReadAtDispatch(t *testing.T) {
	holder := &mutableToken{}
	c, last := newTestClient(t, holder)
	ctx := context.Background()

	_, err := c.GetUser(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)

	holder.value = "abc123"
	u, err := c.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", last.authorization)
	assert.Equal(t, &models.User{ID: "7", Name: "Maria da Silva", Email: "maria@example.com", Cpf: "52998224725"}, u)
}

type mutableToken struct{ value string }

func (m *mutableToken) Token() string { return m.value }

func TestUpdateUser_OmitsEmptyPassword(t *testing.T) {
	c, last := newTestClient(t, staticToken("abc123"))
	ctx := context.Background()

	require.NoError(t, c.UpdateUser(ctx, "7", UpdateRequest{Email: "m@example.com", Name: "Maria", Cpf: "52998224725"}))
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/user/update/7", last.path)
	assert.Equal(t, "abc123", last.authorization)
	_, hasPassword := last.body["password"]
	assert.False(t, hasPassword)

	require.NoError(t, c.UpdateUser(ctx, "7", UpdateRequest{Email: "m@example.com", Name: "Maria", Cpf: "52998224725", Password: "secret2"}))
	assert.Equal(t, "secret2", last.body["password"])

	require.Error(t, c.UpdateUser(ctx, "", UpdateRequest{}))
}

func TestTransportFailure_WrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, nil, nil, logging.Discard())
	require.NoError(t, err)

	_, err = c.GetUser(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestBadJSON_IsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client(), staticToken("t"), nil)
	require.NoError(t, err)

	_, err = c.GetUser(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRemoteError_NoMessage(t *testing.T) {
	e := &RemoteError{Status: http.StatusForbidden}
	assert.Equal(t, "remote error: 403 Forbidden", e.Error())
	assert.ErrorIs(t, e, ErrUnauthorized)
	assert.NotErrorIs(t, &RemoteError{Status: 500}, ErrUnauthorized)
}
