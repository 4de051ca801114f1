package ledger

import (
	"context"
	"errors"

	"github.com/mtlprog/suiledger/internal/domain"
	"github.com/mtlprog/suiledger/internal/history"
	"github.com/mtlprog/suiledger/internal/rpc"
)

// Error codes for ErrorInfo when the cause carries none of its own.
const (
	CodeNetworkFailure = 1000
	CodeOrphanedEffect = 1001
)

const (
	nameNetworkFailure = "NetworkFailure"
	nameOrphanedEffect = "OrphanedEffect"
)

// DescribeError maps a fatal cycle error to the descriptor carried by a Failed state.
func DescribeError(err error) domain.ErrorInfo {
	if err == nil {
		return domain.ErrorInfo{}
	}

	if errors.Is(err, history.ErrOrphanedEffect) {
		return domain.ErrorInfo{Code: CodeOrphanedEffect, Name: nameOrphanedEffect, Message: err.Error()}
	}

	info := domain.ErrorInfo{Code: CodeNetworkFailure, Name: nameNetworkFailure, Message: err.Error()}

	var rpcErr *rpc.Error
	var statusErr *rpc.StatusError
	switch {
	case errors.As(err, &rpcErr):
		info.Code = rpcErr.Code
	case errors.As(err, &statusErr):
		info.Code = statusErr.StatusCode
	case errors.Is(err, context.DeadlineExceeded):
		info.Message = "request timed out: " + err.Error()
	}
	return info
}
