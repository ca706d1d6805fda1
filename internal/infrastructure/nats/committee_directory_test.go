// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	pkgerrors "github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommitteeMembers(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected []model.SourceMember
		wantErr  bool
	}{
		{
			name:     "empty reply",
			data:     "",
			expected: []model.SourceMember{},
		},
		{
			name:     "empty list",
			data:     "[]",
			expected: []model.SourceMember{},
		},
		{
			name: "members keep their names",
			data: `[
				{"uid":"m1","email":"Jane@Example.org","first_name":"Jane","last_name":"Doe","status":"Active"},
				{"uid":"m2","email":"","first_name":"No","last_name":"Email"},
				{"uid":"m3","email":"bob@example.org"}
			]`,
			expected: []model.SourceMember{
				{Email: "Jane@Example.org", FirstName: "Jane", LastName: "Doe"},
				{Email: "bob@example.org"},
			},
		},
		{
			name:    "error reply",
			data:    `{"error":"committee not found"}`,
			wantErr: true,
		},
		{
			name:    "malformed reply",
			data:    `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := decodeCommitteeMembers([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				var unexpected pkgerrors.Unexpected
				assert.True(t, errors.As(err, &unexpected))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, members)
		})
	}
}

func TestNATSClient_NotConnected(t *testing.T) {
	client := &NATSClient{}

	err := client.ready()
	var unavailable pkgerrors.ServiceUnavailable
	assert.True(t, errors.As(err, &unavailable))

	_, err = NewCommitteeDirectory(client).ListMembers(context.Background(), "committee-1")
	assert.True(t, errors.As(err, &unavailable))
	assert.NoError(t, client.Close())
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	var cfgErr pkgerrors.Configuration
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("NATS_URL", "nats://nats.example.org:4222")
	t.Setenv("NATS_CREDENTIALS", "")
	t.Setenv("NATS_TIMEOUT", "3s")
	t.Setenv("NATS_MAX_RECONNECT", "")
	t.Setenv("NATS_RECONNECT_WAIT", "")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "nats://nats.example.org:4222", cfg.URL)
	assert.Equal(t, DefaultConfig().MaxReconnect, cfg.MaxReconnect)
	assert.Equal(t, "3s", cfg.Timeout.String())

	t.Setenv("NATS_MAX_RECONNECT", "many")
	_, err = NewConfigFromEnv()
	assert.Error(t, err)
}
