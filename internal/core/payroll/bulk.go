package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	resultOK          = "ok"
	resultInvalid     = "invalid"
	resultFailed      = "failed"
	resultUnavailable = "unavailable"
)

// BulkUpdater は給与範囲に対する一括改定を 1 トランザクションで実行します。
type BulkUpdater struct {
	store SalaryStore
	tx    TransactionManager
	rec   Recorder
	log   zerolog.Logger
}

// NewBulkUpdater は BulkUpdater を生成します。tx, rec が nil の場合は何もしない実装を使います。
func NewBulkUpdater(store SalaryStore, tx TransactionManager, rec Recorder, log zerolog.Logger) *BulkUpdater {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &BulkUpdater{store: store, tx: tx, rec: rec, log: log.With().Str("component", "bulk_update").Logger()}
}

// Apply は [Min, Max) に含まれる全給与レコードへ改定率を適用し、対象件数を返します。
//
// 読み取り、計算、バッチ書き込み、コミットのいずれかが失敗した場合は全体をロールバックし、
// ErrTransactionFailed (接続不可の場合は ErrStoreUnavailable) を返します。件数は返しません。
func (u *BulkUpdater) Apply(ctx context.Context, adj Adjustment) (int, error) {
	started := time.Now()

	if err := adj.Validate(); err != nil {
		u.rec.ObserveBulkUpdate(resultInvalid, 0, time.Since(started))
		return 0, err
	}

	logger := u.log.With().
		Str("min", adj.Min.String()).
		Str("max", adj.Max.String()).
		Str("percent", adj.Percent.String()).
		Logger()

	var count int
	err := u.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		matched, err := u.store.LockSalaryRange(txCtx, adj)
		if err != nil {
			return fmt.Errorf("read salary range: %w", err)
		}

		batch := NewSalaryBatch(len(matched))
		for _, rec := range matched {
			batch.Queue(SalaryChange{
				RecordID:   rec.ID,
				EmployeeID: rec.EmployeeID,
				Previous:   rec.Salary,
				Salary:     adj.Apply(rec.Salary),
			})
		}

		if batch.Len() == 0 {
			return nil
		}

		if err := u.store.ApplySalaryBatch(txCtx, batch); err != nil {
			return fmt.Errorf("apply salary batch: %w", err)
		}

		count = batch.Len()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			u.rec.ObserveBulkUpdate(resultUnavailable, 0, time.Since(started))
			logger.Error().Err(err).Msg("salary update aborted: store unavailable")
			return 0, err
		}
		u.rec.ObserveBulkUpdate(resultFailed, 0, time.Since(started))
		logger.Error().Err(err).Msg("salary update rolled back")
		return 0, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	u.rec.ObserveBulkUpdate(resultOK, count, time.Since(started))
	logger.Info().Int("rows", count).Msg("salary update committed")
	return count, nil
}
