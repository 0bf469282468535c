package payroll

import (
	"context"
	"time"
)

// Repository は給与情報に関する機能の抽象です。
type Repository interface {
	// PayHistory は支給日の降順で給与履歴を返します。
	PayHistory(ctx context.Context, employeeID int64) ([]Record, error)
	// UpdateSalaryRange は [Min, Max) の給与を一括改定し、対象件数を返します。
	UpdateSalaryRange(ctx context.Context, adj Adjustment) (int, error)
	TotalPayByJobTitle(ctx context.Context) ([]ReportRow, error)
	TotalPayByDivision(ctx context.Context) ([]ReportRow, error)
}

// SalaryStore は一括更新エンジンが利用する書き込み側の抽象です。
// いずれのメソッドも TransactionManager が開始したトランザクション内で呼び出されます。
type SalaryStore interface {
	// LockSalaryRange は [Min, Max) に含まれる給与レコードを一度の読み取りで取得します。
	LockSalaryRange(ctx context.Context, adj Adjustment) ([]Record, error)
	// ApplySalaryBatch はバッチをひとまとまりとして書き込みます。
	ApplySalaryBatch(ctx context.Context, batch *SalaryBatch) error
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Recorder は一括更新の結果を計測します。
type Recorder interface {
	ObserveBulkUpdate(result string, rows int, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveBulkUpdate(string, int, time.Duration) {}
