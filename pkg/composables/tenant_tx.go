package composables

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/staffworx/recruiting/pkg/constants"
)

// InTenantTx joins the transaction already carried by the context, or starts
// a new one. Scheduling mutations rely on this to keep stage rewrites, state
// transitions and holiday-link rebuilds atomic per vacancy.
func InTenantTx(ctx context.Context, fn func(context.Context) error) error {
	if existing, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && existing != nil {
		return fn(ctx)
	}
	return InTx(ctx, fn)
}

func InTenantTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTenantTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}
