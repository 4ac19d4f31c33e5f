package mocks

import (
	"context"
	"restopos/infras/postgres"
)

type transactorImpl struct {
}

// WithTx implements postgres.Transactor by running fn without a database transaction.
// Repository mocks receive a nil *sqlx.Tx.
func (t *transactorImpl) WithTx(ctx context.Context, fn postgres.TxFunc) error {
	return fn(ctx, nil)
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}
