package session

// Kind はセッションの種別タグです。
type Kind int

const (
	KindAdmin Kind = iota + 1
	KindEmployee
)

func (k Kind) String() string {
	switch k {
	case KindAdmin:
		return "admin"
	case KindEmployee:
		return "employee"
	default:
		return "unknown"
	}
}

// Capability はセッションが実行できる操作です。
type Capability string

const (
	CapSearchEmployees   Capability = "search_employees"
	CapBulkUpdatePayroll Capability = "bulk_update_payroll"
	CapGenerateReports   Capability = "generate_reports"
	CapViewOwnPayHistory Capability = "view_own_pay_history"
	CapViewSalaryInfo    Capability = "view_salary_info"
)

// CapabilitiesFor は種別ごとの許可操作を返します。
func CapabilitiesFor(kind Kind) []Capability {
	switch kind {
	case KindAdmin:
		return []Capability{CapSearchEmployees, CapBulkUpdatePayroll, CapGenerateReports}
	case KindEmployee:
		return []Capability{CapViewOwnPayHistory, CapViewSalaryInfo}
	default:
		return nil
	}
}
