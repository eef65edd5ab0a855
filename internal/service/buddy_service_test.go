package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
)

func validBuddyRequest() dto.BuddySubmitRequest {
	return dto.BuddySubmitRequest{
		FullName:      "A",
		Course:        "K20",
		Email:         "a@x.com",
		ResearchTopic: "T",
		Description:   "D",
	}
}

func TestBuddyServiceSubmitStoresPending(t *testing.T) {
	repo := newBuddyRepoStub()
	svc := NewBuddyService(repo, testValidator(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), validBuddyRequest())
	require.NoError(t, err)
	require.Equal(t, "Submitted for approval", resp.Message)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, models.BuddyStatusPending, pending[0].Status)

	approved, err := svc.ListApproved(context.Background(), CourseAll)
	require.NoError(t, err)
	require.Empty(t, approved)
}

func TestBuddyServiceSubmitValidation(t *testing.T) {
	svc := NewBuddyService(newBuddyRepoStub(), testValidator(), nil, testLogger())

	req := validBuddyRequest()
	req.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
}

func TestBuddyServiceApproveOnce(t *testing.T) {
	repo := newBuddyRepoStub()
	audit := &auditRecorderStub{}
	svc := NewBuddyService(repo, testValidator(), audit, testLogger())
	actor := Actor{Username: "admin", Role: models.RoleAdmin}

	_, err := svc.Submit(context.Background(), validBuddyRequest())
	require.NoError(t, err)

	resp, err := svc.Approve(context.Background(), actor, 1)
	require.NoError(t, err)
	require.Equal(t, "Buddy approved", resp.Message)

	_, err = svc.Approve(context.Background(), actor, 1)
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	require.Equal(t, "approve", audit.entries[0].Action)

	approved, err := svc.ListApproved(context.Background(), "K20")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.Equal(t, "A", approved[0].FullName)
	require.Equal(t, "T", approved[0].ResearchTopic)

	other, err := svc.ListApproved(context.Background(), "K21")
	require.NoError(t, err)
	require.Empty(t, other)

	_, err = svc.Approve(context.Background(), actor, 99)
	require.ErrorIs(t, err, ErrBuddyNotFound)
}

func TestBuddyServiceDelete(t *testing.T) {
	repo := newBuddyRepoStub()
	audit := &auditRecorderStub{}
	svc := NewBuddyService(repo, testValidator(), audit, testLogger())

	_, err := svc.Submit(context.Background(), validBuddyRequest())
	require.NoError(t, err)

	resp, err := svc.Delete(context.Background(), Actor{Username: "admin"}, 1)
	require.NoError(t, err)
	require.Equal(t, "Buddy deleted", resp.Message)
	require.Empty(t, repo.items)

	_, err = svc.Delete(context.Background(), Actor{Username: "admin"}, 1)
	require.ErrorIs(t, err, ErrBuddyNotFound)
	require.Len(t, audit.entries, 1)
}
