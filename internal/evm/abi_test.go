package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
)

func TestDefaultABIMethods(t *testing.T) {
	parsed, err := DefaultABI()
	require.NoError(t, err)

	tests := []struct {
		method  string
		inputs  int
		outputs int
		view    bool
	}{
		{MethodCreateResource, 2, 0, false},
		{MethodRegisterChange, 3, 0, false},
		{MethodGetLatestChange, 1, 1, true},
		{MethodGetHistoryRange, 3, 1, true},
		{MethodGetVersionCount, 1, 1, true},
		{MethodGetAdmins, 1, 1, true},
		{MethodGetAdminCount, 1, 1, true},
		{MethodProposeAddAdmin, 2, 0, false},
		{MethodApproveAddAdmin, 1, 0, false},
		{MethodProposeRemoveAdmin, 2, 0, false},
		{MethodApproveRemoveAdmin, 1, 0, false},
		{MethodProposeTransferOwnership, 2, 0, false},
		{MethodApproveTransferOwnership, 1, 0, false},
		{MethodIsAdmin, 2, 1, true},
		{MethodGetResourceConfig, 1, 3, true},
		{MethodSetResourceActiveStatus, 2, 0, false},
		{MethodIsResourceActive, 1, 1, true},
		{MethodIsUniquenessEnforced, 1, 1, true},
		{MethodSetUniqueness, 2, 0, false},
	}
	assert.Len(t, parsed.Methods, len(tests))
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			m, ok := parsed.Methods[tt.method]
			require.True(t, ok)
			assert.Len(t, m.Inputs, tt.inputs)
			assert.Len(t, m.Outputs, tt.outputs)
			assert.Equal(t, tt.view, m.IsConstant())
		})
	}
}

func TestLoadABIFromArtifact(t *testing.T) {
	artifact, err := sjson.SetBytes([]byte(`{"contractName":"J832Protocol","bytecode":"0x"}`), "abi", []map[string]any{
		{
			"type":            "function",
			"name":            "getVersionCount",
			"stateMutability": "view",
			"inputs":          []map[string]any{{"name": "resourceId", "type": "bytes32"}},
			"outputs":         []map[string]any{{"name": "", "type": "uint256"}},
		},
	})
	require.NoError(t, err)

	parsed, err := LoadABI(artifact)
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, MethodGetVersionCount)
}

func TestLoadABIInvalid(t *testing.T) {
	_, err := LoadABI([]byte(`{"abi": "nope"`))
	assert.ErrorIs(t, err, ErrInvalidABI)
}
