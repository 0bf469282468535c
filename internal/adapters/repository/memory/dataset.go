// Package memory はデータベースに接続できない場合に使う読み取り専用のサンプルデータ実装です。
// 書き込みは行わず、一括改定は対象件数の算出のみを行います。
package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type user struct {
	username   string
	hash       []byte
	role       auth.Role
	employeeID *int64
}

// Dataset は各リポジトリが共有するサンプルデータです。生成後は変更されません。
type Dataset struct {
	users     map[string]user
	employees []employee.Employee
	records   []payroll.Record
	jobTitles map[int64]string
	divisions map[int64]string
}

// NewDataset はサンプルデータを構築します。パスワードは bcrypt でハッシュ化して保持します。
func NewDataset() (*Dataset, error) {
	linked := int64(1)
	seeds := []struct {
		username, password string
		role               auth.Role
		employeeID         *int64
	}{
		{"admin", "admin123", auth.RoleAdmin, nil},
		{"employee", "emp123", auth.RoleEmployee, &linked},
		{"demo", "demo123", auth.RoleAdmin, nil},
	}

	ds := &Dataset{
		users: make(map[string]user, len(seeds)),
		employees: []employee.Employee{
			{ID: 1, Name: "John Smith", SSN: "123-45-6789", JobTitleID: ref(1), DivisionID: ref(1)},
			{ID: 2, Name: "Jane Doe", SSN: "234-56-7890", JobTitleID: ref(2), DivisionID: ref(1)},
			{ID: 3, Name: "Bob Johnson", SSN: "345-67-8901", JobTitleID: ref(1), DivisionID: ref(2)},
			{ID: 4, Name: "Alice Williams", SSN: "456-78-9012", JobTitleID: ref(2), DivisionID: ref(2)},
			// 職種・部門とも未所属。集計には含まれない。
			{ID: 5, Name: "Unassigned Contractor", SSN: "567-89-0123"},
		},
		jobTitles: map[int64]string{1: "Developer", 2: "Senior Developer"},
		divisions: map[int64]string{1: "Engineering", 2: "Operations"},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("memory: hash password for %s: %w", s.username, err)
		}
		ds.users[strings.ToLower(s.username)] = user{
			username:   s.username,
			hash:       hash,
			role:       s.role,
			employeeID: s.employeeID,
		}
	}

	// 先頭が 2024-04 の支給分で、以降 1 か月ずつ遡る。
	history := map[int64][]string{
		1: {"75000.00", "73500.00", "72000.00", "70000.00"},
		2: {"85000.00", "83000.00", "81000.00", "80000.00"},
		3: {"72000.00", "70500.00", "69000.00", "68000.00"},
		4: {"90000.00", "88000.00", "86000.00", "85000.00"},
		5: {"40000.00"},
	}
	var nextID int64
	for _, e := range ds.employees {
		for i, amount := range history[e.ID] {
			nextID++
			ds.records = append(ds.records, payroll.Record{
				ID:         nextID,
				EmployeeID: e.ID,
				Salary:     decimal.RequireFromString(amount),
				PayDate:    time.Date(2024, time.Month(4-i), 1, 0, 0, 0, 0, time.UTC),
			})
		}
	}

	return ds, nil
}

// latestSalary は支給日が最も新しい給与額を返します。給与行が無い場合は 0 です。
func (ds *Dataset) latestSalary(employeeID int64) decimal.Decimal {
	var (
		latest payroll.Record
		found  bool
	)
	for _, rec := range ds.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		if !found || rec.PayDate.After(latest.PayDate) || (rec.PayDate.Equal(latest.PayDate) && rec.ID > latest.ID) {
			latest, found = rec, true
		}
	}
	if !found {
		return decimal.Zero
	}
	return latest.Salary
}

func (ds *Dataset) employee(id int64) (employee.Employee, bool) {
	for _, e := range ds.employees {
		if e.ID == id {
			return e, true
		}
	}
	return employee.Employee{}, false
}

func ref(id int64) *int64 { return &id }
