package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRegisterPUTsRuntimeRecord(t *testing.T) {
	var got registration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	orig := flowhubRegistrationURL
	flowhubRegistrationURL = srv.URL + "/runtimes/%s"
	defer func() { flowhubRegistrationURL = orig }()

	err := runRegister(context.Background(), "alice", "my-runtime", "127.0.0.1", "4000")
	require.NoError(t, err)

	assert.Equal(t, "protoflo", got.Type)
	assert.Equal(t, "websocket", got.Protocol)
	assert.Equal(t, "ws://127.0.0.1:4000", got.Address)
	assert.Equal(t, "alice", got.User)
	assert.Equal(t, "my-runtime", got.Label)
	assert.Equal(t, "4000", got.Port)
	assert.NotEmpty(t, got.ID)
	assert.NotEmpty(t, got.Secret)
}

func TestRunRegisterFailsWithoutUser(t *testing.T) {
	cmd := registerCommand()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
}

func TestRunRegisterReturnsErrorOnNonOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	orig := flowhubRegistrationURL
	flowhubRegistrationURL = srv.URL + "/runtimes/%s"
	defer func() { flowhubRegistrationURL = orig }()

	err := runRegister(context.Background(), "alice", "label", "127.0.0.1", "4000")
	assert.Error(t, err)
}
