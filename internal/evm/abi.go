package evm

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/tidwall/gjson"
)

// Contract method names. They must match the deployed J832 contract exactly.
const (
	MethodCreateResource           = "createResource"
	MethodRegisterChange           = "registerChange"
	MethodGetLatestChange          = "getLatestChange"
	MethodGetHistoryRange          = "getHistoryRange"
	MethodGetVersionCount          = "getVersionCount"
	MethodGetAdmins                = "getAdmins"
	MethodGetAdminCount            = "getAdminCount"
	MethodProposeAddAdmin          = "proposeAddAdmin"
	MethodApproveAddAdmin          = "approveAddAdmin"
	MethodProposeRemoveAdmin       = "proposeRemoveAdmin"
	MethodApproveRemoveAdmin       = "approveRemoveAdmin"
	MethodProposeTransferOwnership = "proposeTransferOwnership"
	MethodApproveTransferOwnership = "approveTransferOwnership"
	MethodIsAdmin                  = "isAdmin"
	MethodGetResourceConfig        = "getResourceConfig"
	MethodSetResourceActiveStatus  = "setResourceActiveStatus"
	MethodIsResourceActive         = "isResourceActive"
	MethodIsUniquenessEnforced     = "isUniquenessEnforced"
	MethodSetUniqueness            = "setUniqueness"
)

//go:embed abi/J832Protocol.json
var contractABI []byte

var (
	defaultABI     abi.ABI
	defaultABIErr  error
	defaultABIOnce sync.Once
)

// LoadABI parses either a bare ABI array or a build artifact that carries the
// ABI under its "abi" key.
func LoadABI(data []byte) (abi.ABI, error) {
	if res := gjson.GetBytes(data, "abi"); res.Exists() && res.IsArray() {
		data = []byte(res.Raw)
	}
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, ErrInvalidABI.Err(err)
	}
	return parsed, nil
}

// DefaultABI returns the embedded J832 contract ABI.
func DefaultABI() (abi.ABI, error) {
	defaultABIOnce.Do(func() {
		defaultABI, defaultABIErr = LoadABI(contractABI)
	})
	return defaultABI, defaultABIErr
}
