// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr string
	}{
		{
			name:  "nil input",
			pairs: nil,
			want:  nil,
		},
		{
			name:  "single pair",
			pairs: []string{"privateKey=/etc/keys/signing.pem"},
			want:  map[string]string{"privateKey": "/etc/keys/signing.pem"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"jwksUrl=https://idp.example.com/jwks?use=sig"},
			want:  map[string]string{"jwksUrl": "https://idp.example.com/jwks?use=sig"},
		},
		{
			name:  "multiple pairs",
			pairs: []string{"enabled=true", "priority=10"},
			want:  map[string]string{"enabled": "true", "priority": "10"},
		},
		{
			name:  "later pair wins",
			pairs: []string{"enabled=true", "enabled=false"},
			want:  map[string]string{"enabled": "false"},
		},
		{
			name:  "empty value is kept",
			pairs: []string{"algorithm="},
			want:  map[string]string{"algorithm": ""},
		},
		{
			name:    "missing separator",
			pairs:   []string{"enabled"},
			wantErr: "expected key=value",
		},
		{
			name:    "empty key",
			pairs:   []string{"=true"},
			wantErr: "expected key=value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseAttributes(tt.pairs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
