// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

// committeeMember is the part of a committee-api member record the sync needs
type committeeMember struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
}

// committeeDirectory uses an LFX committee as the source group.
// The group ID is the committee UID.
type committeeDirectory struct {
	client *NATSClient
}

// ListMembers requests the committee members from the committee-api
func (d *committeeDirectory) ListMembers(ctx context.Context, committeeUID string) ([]model.SourceMember, error) {
	slog.DebugContext(ctx, "requesting committee members via NATS",
		"committee_uid", committeeUID,
		"subject", constants.CommitteeListMembersSubject)

	msg, err := d.client.request(ctx, constants.CommitteeListMembersSubject, []byte(committeeUID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to request committee members",
			"error", err,
			"committee_uid", committeeUID)
		return nil, errors.NewServiceUnavailable("committee-api unavailable", err)
	}

	members, err := decodeCommitteeMembers(msg.Data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode committee members response",
			"error", err,
			"committee_uid", committeeUID)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully retrieved committee members",
		"committee_uid", committeeUID,
		"member_count", len(members))

	return members, nil
}

// decodeCommitteeMembers parses a list_members reply. An empty reply means
// the committee has no members; a {"error": "..."} reply is a failure.
// Members without an email cannot be subscribed and are dropped.
func decodeCommitteeMembers(data []byte) ([]model.SourceMember, error) {
	if len(data) == 0 {
		return []model.SourceMember{}, nil
	}

	var errorResponse struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &errorResponse); err == nil && errorResponse.Error != "" {
		return nil, errors.NewUnexpected(errorResponse.Error)
	}

	var raw []committeeMember
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewUnexpected(fmt.Sprintf("failed to unmarshal committee members: %v", err))
	}

	members := make([]model.SourceMember, 0, len(raw))
	for _, m := range raw {
		if m.Email == "" {
			continue
		}
		members = append(members, model.SourceMember{
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
		})
	}

	return members, nil
}

// NewCommitteeDirectory creates a source directory backed by the committee-api
func NewCommitteeDirectory(client *NATSClient) port.SourceDirectoryReader {
	return &committeeDirectory{
		client: client,
	}
}
