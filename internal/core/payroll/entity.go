package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	// minPercent は減額の下限(給与の全額削減)です。
	minPercent = decimal.NewFromInt(-100)
)

// Record は給与レコードです。Salary は常に 0 以上です。
type Record struct {
	ID         int64
	EmployeeID int64
	Salary     decimal.Decimal
	PayDate    time.Time
}

// ReportRow は集計レポートの 1 行です。
type ReportRow struct {
	Label string
	Total decimal.Decimal
}

// Adjustment は給与範囲 [Min, Max) に対する百分率での改定指示です。
type Adjustment struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	Percent decimal.Decimal
}

// Validate はストアへアクセスする前に入力を検証します。
func (a Adjustment) Validate() error {
	if a.Percent.LessThan(minPercent) {
		return ErrInvalidPercent
	}
	if a.Min.IsNegative() || a.Max.IsNegative() || a.Min.GreaterThan(a.Max) {
		return ErrInvalidRange
	}
	return nil
}

// Contains は salary が半開区間 [Min, Max) に含まれるかを返します。
func (a Adjustment) Contains(salary decimal.Decimal) bool {
	return salary.GreaterThanOrEqual(a.Min) && salary.LessThan(a.Max)
}

// Apply は改定後の給与を返します。計算は常に読み取り時点の値を基準にします。
func (a Adjustment) Apply(salary decimal.Decimal) decimal.Decimal {
	factor := one.Add(a.Percent.Div(hundred))
	return salary.Mul(factor).Round(2)
}

// SalaryChange はバッチに積まれる 1 行分の更新です。
type SalaryChange struct {
	RecordID   int64
	EmployeeID int64
	Previous   decimal.Decimal
	Salary     decimal.Decimal
}

// SalaryBatch は 1 回の一括更新で書き込む変更の集合です。行ごとにはコミットしません。
type SalaryBatch struct {
	changes []SalaryChange
}

// NewSalaryBatch は容量を確保した SalaryBatch を生成します。
func NewSalaryBatch(capacity int) *SalaryBatch {
	return &SalaryBatch{changes: make([]SalaryChange, 0, capacity)}
}

// Queue は変更をバッチに追加します。
func (b *SalaryBatch) Queue(change SalaryChange) {
	b.changes = append(b.changes, change)
}

// Len はバッチに積まれた変更数を返します。
func (b *SalaryBatch) Len() int {
	return len(b.changes)
}

// Changes は積まれた変更のコピーを返します。
func (b *SalaryBatch) Changes() []SalaryChange {
	out := make([]SalaryChange, len(b.changes))
	copy(out, b.changes)
	return out
}
