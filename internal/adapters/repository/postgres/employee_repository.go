package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

// EmployeeRepository は PostgreSQL を利用した社員参照の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// 最新の給与は支給日が最も新しい payroll 行の値。給与行の無い社員は 0 とする。
const searchSelect = `
        SELECT e.empid,
               e.name,
               COALESCE(p.salary, 0)::text
          FROM employees e
          LEFT JOIN LATERAL (
                SELECT salary
                  FROM payroll
                 WHERE empid = e.empid
                 ORDER BY pay_date DESC, payroll_id DESC
                 LIMIT 1
          ) p ON TRUE`

// Search は名前の部分一致(大文字小文字を区別しない)または ID の完全一致で検索します。
func (r *EmployeeRepository) Search(ctx context.Context, term string) ([]employee.SearchResult, error) {
	var idArg any
	if id, err := strconv.ParseInt(term, 10, 64); err == nil {
		idArg = id
	}

	return r.querySearch(ctx, searchSelect+`
         WHERE e.name ILIKE '%' || $1 || '%'
            OR e.empid = $2
         ORDER BY e.empid
    `, escapeLike(term), idArg)
}

// SearchBySSN は SSN の完全一致で検索します。
func (r *EmployeeRepository) SearchBySSN(ctx context.Context, ssn string) ([]employee.SearchResult, error) {
	return r.querySearch(ctx, searchSelect+`
         WHERE e.ssn = $1
         ORDER BY e.empid
    `, ssn)
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT empid, name, ssn, job_title_id, division_id
          FROM employees
         WHERE empid = $1
         LIMIT 1
    `, id)

	var (
		e          employee.Employee
		jobTitleID sql.NullInt64
		divisionID sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Name, &e.SSN, &jobTitleID, &divisionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("postgres: find employee: %w", err)
	}
	e.JobTitleID = nullableID(jobTitleID)
	e.DivisionID = nullableID(divisionID)
	return &e, nil
}

// nullableID は NULL を nil として扱います。
func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func (r *EmployeeRepository) querySearch(ctx context.Context, query string, args ...any) ([]employee.SearchResult, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: search employees: %w", err)
	}
	defer rows.Close()

	results := make([]employee.SearchResult, 0)
	for rows.Next() {
		var (
			res    employee.SearchResult
			salary string
		)
		if err := rows.Scan(&res.ID, &res.Name, &salary); err != nil {
			return nil, fmt.Errorf("postgres: scan employee: %w", err)
		}
		if res.Salary, err = decimal.NewFromString(salary); err != nil {
			return nil, fmt.Errorf("postgres: parse salary %q: %w", salary, err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: search employees: %w", err)
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike は LIKE のワイルドカードをリテラルとして扱うようにエスケープします。
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
