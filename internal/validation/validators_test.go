package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/tansive/j832-go/internal/common/apperrors"
	"github.com/tansive/j832-go/pkg/types"
)

func TestChangeTypeValidator(t *testing.T) {
	validate := validator.New()
	validate.RegisterValidation("changetype", changeTypeValidator)

	tests := []struct {
		input   any
		isValid bool
	}{
		{types.ChangeType(-1), false},
		{types.ChangeTypeCreate, true},
		{types.ChangeTypeUpdate, true},
		{types.ChangeTypeDelete, true},
		{types.ChangeTypeTransfer, true},
		{types.ChangeTypeAudit, true},
		{types.ChangeType(5), false},
		{3, true},
		{int64(7), false},
		{"UPDATE", false},
	}

	for _, test := range tests {
		err := validate.Var(test.input, "changetype")
		if (err == nil) != test.isValid {
			t.Errorf("Expected %v for input '%v', but got %v", test.isValid, test.input, err == nil)
		}
	}
}

func TestHexSecretValidator(t *testing.T) {
	validate := validator.New()
	validate.RegisterValidation("hexsecret", hexSecretValidator)

	tests := []struct {
		input    string
		expected bool
	}{
		{"0x" + strings.Repeat("a1", 32), true},
		{"0x" + strings.Repeat("A1", 32), true},
		{strings.Repeat("a1", 32), false},
		{"0x" + strings.Repeat("a1", 31), false},
		{"0x" + strings.Repeat("a1", 33), false},
		{"0x" + strings.Repeat("g1", 32), false},
		{"", false},
	}

	for _, test := range tests {
		err := validate.Var(test.input, "hexsecret")
		result := err == nil

		if result != test.expected {
			t.Errorf("Expected %v for input '%s', got %v", test.expected, test.input, result)
		}
	}
}

type proposeParams struct {
	ResourceID string `json:"resourceId" validate:"required"`
	Target     string `json:"target" validate:"eth_addr"`
}

type changeParams struct {
	ResourceID string           `json:"resourceId" validate:"required"`
	ChangeType types.ChangeType `json:"changeType" validate:"changetype"`
}

func TestCheck(t *testing.T) {
	validAddr := "0x" + strings.Repeat("ab", 20)

	tests := []struct {
		name    string
		input   any
		wantErr error
		field   string
	}{
		{"valid proposal", proposeParams{ResourceID: "doc-1", Target: validAddr}, nil, ""},
		{"missing resource", proposeParams{Target: validAddr}, ErrMissingRequired, "resourceId"},
		{"short address", proposeParams{ResourceID: "doc-1", Target: "0x1234"}, ErrInvalidAddress, "target"},
		{"unprefixed address", proposeParams{ResourceID: "doc-1", Target: strings.Repeat("ab", 20)}, ErrInvalidAddress, "target"},
		{"change type 5", changeParams{ResourceID: "doc-1", ChangeType: 5}, ErrInvalidChangeType, "changeType"},
		{"change type -1", changeParams{ResourceID: "doc-1", ChangeType: -1}, ErrInvalidChangeType, "changeType"},
		{"change type create", changeParams{ResourceID: "doc-1", ChangeType: types.ChangeTypeCreate}, nil, ""},
		{"change type audit", changeParams{ResourceID: "doc-1", ChangeType: types.ChangeTypeAudit}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}
