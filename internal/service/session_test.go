package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xqin77/chatstream/internal/domain"
)

func TestPersistSessionCreatesAndUpdates(t *testing.T) {
	st := newFakeStore()
	svc := New(st, &fakeWorkflow{}, nil, testServiceConfig())

	resp := svc.PersistSession(context.Background(), &domain.PersistSessionRequest{
		ThreadID: "t1",
		Messages: []domain.Message{domain.NewMessage(domain.RoleUser, "hi")},
	})

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "t1", resp.ThreadID)

	// A second persist replaces the message log wholesale.
	resp = svc.PersistSession(context.Background(), &domain.PersistSessionRequest{
		ThreadID: "t1",
		Messages: []domain.Message{domain.NewMessage(domain.RoleUser, "replaced")},
	})

	assert.True(t, resp.Success)
	stored := st.sessions["t1"]
	assert.Len(t, stored.Messages, 1)
	assert.Equal(t, "replaced", stored.Messages[0].Content)
}

func TestPersistSessionReportsFailureInBody(t *testing.T) {
	st := newFakeStore()
	st.saveErr = errors.New("disk full")
	svc := New(st, &fakeWorkflow{}, nil, testServiceConfig())

	resp := svc.PersistSession(context.Background(), &domain.PersistSessionRequest{
		ThreadID: "t1",
		Messages: []domain.Message{domain.NewMessage(domain.RoleUser, "hi")},
	})

	// Failure is in-body, never an error: the endpoint contract is 200.
	assert.False(t, resp.Success)
	assert.Empty(t, resp.ID)
	assert.Equal(t, "t1", resp.ThreadID)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestPersistSessionRequiresThreadID(t *testing.T) {
	svc := New(newFakeStore(), &fakeWorkflow{}, nil, testServiceConfig())

	resp := svc.PersistSession(context.Background(), &domain.PersistSessionRequest{})

	assert.False(t, resp.Success)
}

func TestGetSession(t *testing.T) {
	st := newFakeStore()
	st.sessions["t1"] = domain.NewChatSession("t1", nil)
	svc := New(st, &fakeWorkflow{}, nil, testServiceConfig())

	session, err := svc.GetSession(context.Background(), "t1")
	assert.NoError(t, err)
	assert.NotNil(t, session)

	session, err = svc.GetSession(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, session)

	_, err = svc.GetSession(context.Background(), "")
	assert.Error(t, err)
}
