package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

// AuthRepository はサンプル利用者で認証します。ユーザー名は大文字小文字を区別しません。
type AuthRepository struct {
	ds *Dataset
}

// NewAuthRepository は AuthRepository を生成します。
func NewAuthRepository(ds *Dataset) *AuthRepository {
	return &AuthRepository{ds: ds}
}

// ValidateLogin は一致する認証情報を返します。
func (r *AuthRepository) ValidateLogin(_ context.Context, username, password string) (*auth.Credential, error) {
	u, ok := r.ds.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, auth.ErrCredentialNotFound
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return nil, auth.ErrCredentialNotFound
	}

	cred := &auth.Credential{Username: u.username, Role: u.role}
	if u.employeeID != nil {
		id := *u.employeeID
		cred.EmployeeID = &id
	}
	return cred, nil
}

// EmployeeRepository はサンプル社員を検索します。
type EmployeeRepository struct {
	ds *Dataset
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(ds *Dataset) *EmployeeRepository {
	return &EmployeeRepository{ds: ds}
}

// Search は名前の部分一致(大文字小文字を区別しない)または ID の完全一致で検索します。
func (r *EmployeeRepository) Search(_ context.Context, term string) ([]employee.SearchResult, error) {
	fold := cases.Fold()
	needle := fold.String(term)
	id, idErr := strconv.ParseInt(term, 10, 64)

	return r.collect(func(e employee.Employee) bool {
		if idErr == nil && e.ID == id {
			return true
		}
		return strings.Contains(fold.String(e.Name), needle)
	}), nil
}

// SearchBySSN は SSN の完全一致で検索します。
func (r *EmployeeRepository) SearchBySSN(_ context.Context, ssn string) ([]employee.SearchResult, error) {
	return r.collect(func(e employee.Employee) bool { return e.SSN == ssn }), nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id int64) (*employee.Employee, error) {
	e, ok := r.ds.employee(id)
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return &e, nil
}

func (r *EmployeeRepository) collect(match func(employee.Employee) bool) []employee.SearchResult {
	results := make([]employee.SearchResult, 0)
	for _, e := range r.ds.employees {
		if match(e) {
			results = append(results, employee.SearchResult{ID: e.ID, Name: e.Name, Salary: r.ds.latestSalary(e.ID)})
		}
	}
	return results
}

// PayrollRepository はサンプル給与データを参照します。
// UpdateSalaryRange は対象件数を返しますが、データは変更しません。
type PayrollRepository struct {
	ds      *Dataset
	updater *payroll.BulkUpdater
}

// NewPayrollRepository は PayrollRepository を生成します。rec は nil でも構いません。
func NewPayrollRepository(ds *Dataset, rec payroll.Recorder, log zerolog.Logger) *PayrollRepository {
	store := dryRunStore{ds: ds, log: log.With().Str("backend", "memory").Logger()}
	return &PayrollRepository{
		ds:      ds,
		updater: payroll.NewBulkUpdater(store, nil, rec, log),
	}
}

// PayHistory は社員の給与履歴を支給日の降順で返します。
func (r *PayrollRepository) PayHistory(_ context.Context, employeeID int64) ([]payroll.Record, error) {
	records := make([]payroll.Record, 0)
	for _, rec := range r.ds.records {
		if rec.EmployeeID == employeeID {
			records = append(records, rec)
		}
	}
	slices.SortFunc(records, func(a, b payroll.Record) int {
		if c := b.PayDate.Compare(a.PayDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return records, nil
}

// UpdateSalaryRange は対象件数のみを算出します。
func (r *PayrollRepository) UpdateSalaryRange(ctx context.Context, adj payroll.Adjustment) (int, error) {
	return r.updater.Apply(ctx, adj)
}

// TotalPayByJobTitle は職種ごとの給与総額を職種名順に返します。
func (r *PayrollRepository) TotalPayByJobTitle(context.Context) ([]payroll.ReportRow, error) {
	return r.report(func(e employee.Employee) (string, bool) {
		return lookup(r.ds.jobTitles, e.JobTitleID)
	}), nil
}

// TotalPayByDivision は部門ごとの給与総額を部門名順に返します。
func (r *PayrollRepository) TotalPayByDivision(context.Context) ([]payroll.ReportRow, error) {
	return r.report(func(e employee.Employee) (string, bool) {
		return lookup(r.ds.divisions, e.DivisionID)
	}), nil
}

// report は社員もラベルも存在する給与行だけを集計します。
func (r *PayrollRepository) report(label func(employee.Employee) (string, bool)) []payroll.ReportRow {
	totals := make(map[string]decimal.Decimal)
	for _, rec := range r.ds.records {
		e, ok := r.ds.employee(rec.EmployeeID)
		if !ok {
			continue
		}
		name, ok := label(e)
		if !ok {
			continue
		}
		totals[name] = totals[name].Add(rec.Salary)
	}

	rows := make([]payroll.ReportRow, 0, len(totals))
	for name, total := range totals {
		rows = append(rows, payroll.ReportRow{Label: name, Total: total})
	}
	slices.SortFunc(rows, func(a, b payroll.ReportRow) int { return cmp.Compare(a.Label, b.Label) })
	return rows
}

func lookup(labels map[int64]string, id *int64) (string, bool) {
	if id == nil {
		return "", false
	}
	name, ok := labels[*id]
	return name, ok
}

type dryRunStore struct {
	ds  *Dataset
	log zerolog.Logger
}

func (s dryRunStore) LockSalaryRange(_ context.Context, adj payroll.Adjustment) ([]payroll.Record, error) {
	matched := make([]payroll.Record, 0)
	for _, rec := range s.ds.records {
		if adj.Contains(rec.Salary) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (s dryRunStore) ApplySalaryBatch(_ context.Context, batch *payroll.SalaryBatch) error {
	for _, c := range batch.Changes() {
		s.log.Info().
			Int64("record_id", c.RecordID).
			Int64("employee_id", c.EmployeeID).
			Str("previous", c.Previous.StringFixed(2)).
			Str("salary", c.Salary.StringFixed(2)).
			Msg("dry run: salary change not persisted")
	}
	return nil
}
