package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "domainnav/pkg/domain-errors"
)

func TestParseDomainID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"nil UUID", uuid.Nil.String(), true},
		{"not a uuid", "acme", true},
		{"oversized input", strings.Repeat("a", 1000), true},
		{"sql injection attempt", "'; DROP TABLE domains;--", true},
		{"uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"lowercase valid UUID", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDomainID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDomainIDJSON(t *testing.T) {
	id := NewDomainID()
	require.False(t, id.IsNil())

	body, err := json.Marshal(struct {
		ID DomainID `json:"id"`
	}{ID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(body))

	var decoded struct {
		ID DomainID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, id, decoded.ID)
}
