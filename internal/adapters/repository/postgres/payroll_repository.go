package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
	pgdb "github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/db/postgres"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PayrollRepository は PostgreSQL を利用した給与情報の実装です。
// 一括改定では payroll.SalaryStore としても振る舞います。
type PayrollRepository struct {
	pool    pgdb.Queryer
	updater *payroll.BulkUpdater
}

type txRunner interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// NewPayrollRepository は PayrollRepository を生成します。
// tx は一括改定のトランザクションに使われ、rec は nil でも構いません。
func NewPayrollRepository(pool pgdb.Queryer, tx txRunner, rec payroll.Recorder, log zerolog.Logger) *PayrollRepository {
	r := &PayrollRepository{pool: pool}
	r.updater = payroll.NewBulkUpdater(r, storeTx{tx: tx}, rec, log)
	return r
}

// PayHistory は社員の給与履歴を支給日の降順で返します。
func (r *PayrollRepository) PayHistory(ctx context.Context, employeeID int64) ([]payroll.Record, error) {
	return r.queryRecords(ctx, `
        SELECT payroll_id, empid, salary::text, pay_date
          FROM payroll
         WHERE empid = $1
         ORDER BY pay_date DESC, payroll_id DESC
    `, employeeID)
}

// UpdateSalaryRange は [Min, Max) の給与を 1 トランザクションで一括改定します。
func (r *PayrollRepository) UpdateSalaryRange(ctx context.Context, adj payroll.Adjustment) (int, error) {
	return r.updater.Apply(ctx, adj)
}

// LockSalaryRange は対象行を FOR UPDATE で読み取り、同時実行中の改定と直列化します。
func (r *PayrollRepository) LockSalaryRange(ctx context.Context, adj payroll.Adjustment) ([]payroll.Record, error) {
	return r.queryRecords(ctx, `
        SELECT payroll_id, empid, salary::text, pay_date
          FROM payroll
         WHERE salary >= $1::numeric
           AND salary < $2::numeric
         ORDER BY payroll_id
           FOR UPDATE
    `, adj.Min.String(), adj.Max.String())
}

// ApplySalaryBatch はバッチ全体を単一の UPDATE 文で書き込みます。
func (r *PayrollRepository) ApplySalaryBatch(ctx context.Context, batch *payroll.SalaryBatch) error {
	changes := batch.Changes()
	if len(changes) == 0 {
		return nil
	}

	ids := make([]int64, len(changes))
	salaries := make([]string, len(changes))
	for i, c := range changes {
		ids[i] = c.RecordID
		salaries[i] = c.Salary.StringFixed(2)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE payroll p
           SET salary = v.salary::numeric
          FROM unnest($1::bigint[], $2::text[]) AS v(id, salary)
         WHERE p.payroll_id = v.id
    `, ids, salaries)
	if err != nil {
		return fmt.Errorf("postgres: update salaries: %w", err)
	}
	if got := tag.RowsAffected(); got != int64(len(changes)) {
		return fmt.Errorf("%w: want %d, got %d", payroll.ErrBatchMismatch, len(changes), got)
	}
	return nil
}

// TotalPayByJobTitle は職種ごとの給与総額を職種名順に返します。
func (r *PayrollRepository) TotalPayByJobTitle(ctx context.Context) ([]payroll.ReportRow, error) {
	return r.queryReport(ctx, `
        SELECT jt.job_title_name, SUM(p.salary)::text
          FROM payroll p
          JOIN employees e ON e.empid = p.empid
          JOIN job_titles jt ON jt.job_title_id = e.job_title_id
         GROUP BY jt.job_title_name
         ORDER BY jt.job_title_name
    `)
}

// TotalPayByDivision は部門ごとの給与総額を部門名順に返します。
func (r *PayrollRepository) TotalPayByDivision(ctx context.Context) ([]payroll.ReportRow, error) {
	return r.queryReport(ctx, `
        SELECT d.division_name, SUM(p.salary)::text
          FROM payroll p
          JOIN employees e ON e.empid = p.empid
          JOIN divisions d ON d.division_id = e.division_id
         GROUP BY d.division_name
         ORDER BY d.division_name
    `)
}

func (r *PayrollRepository) queryRecords(ctx context.Context, query string, args ...any) ([]payroll.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query payroll: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query payroll: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (payroll.Record, error) {
	var (
		rec     payroll.Record
		salary  string
		payDate time.Time
	)
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &salary, &payDate); err != nil {
		return payroll.Record{}, fmt.Errorf("postgres: scan payroll: %w", err)
	}

	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("postgres: parse salary %q: %w", salary, err)
	}
	rec.Salary = amount
	rec.PayDate = time.Date(payDate.Year(), payDate.Month(), payDate.Day(), 0, 0, 0, 0, time.UTC)
	return rec, nil
}

func (r *PayrollRepository) queryReport(ctx context.Context, query string) ([]payroll.ReportRow, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: query report: %w", err)
	}
	defer rows.Close()

	report := make([]payroll.ReportRow, 0)
	for rows.Next() {
		var (
			label string
			total string
		)
		if err := rows.Scan(&label, &total); err != nil {
			return nil, fmt.Errorf("postgres: scan report: %w", err)
		}
		amount, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("postgres: parse total %q: %w", total, err)
		}
		report = append(report, payroll.ReportRow{Label: label, Total: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query report: %w", err)
	}
	return report, nil
}

// storeTx はトランザクションを開始できない場合を payroll.ErrStoreUnavailable として報告します。
type storeTx struct {
	tx txRunner
}

func (s storeTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	err := s.tx.WithinReadWrite(ctx, fn)
	if errors.Is(err, pgdb.ErrBeginTx) {
		return fmt.Errorf("%w: %w", payroll.ErrStoreUnavailable, err)
	}
	return err
}
