package session

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
)

const salaryInfoMessage = "Your salary information is confidential and secure."

// Services はセッションが委譲するユースケースです。
type Services struct {
	Employees employee.UseCase
	Payroll   payroll.UseCase
}

// Session は認証済み利用者のセッションです。作成後はログアウト以外で状態が変わりません。
type Session struct {
	id           uuid.UUID
	username     string
	kind         Kind
	employeeID   *int64
	capabilities []Capability
	svc          Services
	closed       atomic.Bool
}

// New は Credential から種別に応じたセッションを生成します。
func New(cred *auth.Credential, svc Services) (*Session, error) {
	if cred == nil {
		return nil, ErrUnknownRole
	}

	kind, err := kindOf(cred.Role)
	if err != nil {
		return nil, err
	}

	var employeeID *int64
	if cred.EmployeeID != nil {
		id := *cred.EmployeeID
		employeeID = &id
	}

	return &Session{
		id:           uuid.New(),
		username:     cred.Username,
		kind:         kind,
		employeeID:   employeeID,
		capabilities: CapabilitiesFor(kind),
		svc:          svc,
	}, nil
}

func kindOf(role auth.Role) (Kind, error) {
	switch role {
	case auth.RoleAdmin:
		return KindAdmin, nil
	case auth.RoleEmployee:
		return KindEmployee, nil
	default:
		return 0, ErrUnknownRole
	}
}

// ID はログ相関用のセッション ID を返します。
func (s *Session) ID() uuid.UUID { return s.id }

// Username はログインしたユーザー名を返します。
func (s *Session) Username() string { return s.username }

// Kind はセッション種別を返します。
func (s *Session) Kind() Kind { return s.kind }

// Active はログアウトしていなければ true を返します。
func (s *Session) Active() bool { return !s.closed.Load() }

// Capabilities は許可操作の一覧を返します。
func (s *Session) Capabilities() []Capability {
	return slices.Clone(s.capabilities)
}

// Can は操作が許可されているかを返します。
func (s *Session) Can(c Capability) bool {
	return slices.Contains(s.capabilities, c)
}

// Logout はセッションを無効化します。複数回呼び出しても安全です。
func (s *Session) Logout() {
	s.closed.Store(true)
}

func (s *Session) require(c Capability) error {
	if s.closed.Load() {
		return ErrLoggedOut
	}
	if !s.Can(c) {
		return ErrForbidden
	}
	return nil
}

// SearchEmployees は名前または ID で社員を検索します。
func (s *Session) SearchEmployees(ctx context.Context, term string) ([]employee.SearchResult, error) {
	if err := s.require(CapSearchEmployees); err != nil {
		return nil, err
	}
	return s.svc.Employees.SearchEmployees(ctx, term), nil
}

// SearchBySSN は SSN の完全一致で社員を検索します。
func (s *Session) SearchBySSN(ctx context.Context, ssn string) ([]employee.SearchResult, error) {
	if err := s.require(CapSearchEmployees); err != nil {
		return nil, err
	}
	return s.svc.Employees.SearchBySSN(ctx, ssn), nil
}

// GetEmployee は ID で社員を取得します。
func (s *Session) GetEmployee(ctx context.Context, id int64) (*employee.Employee, error) {
	if err := s.require(CapSearchEmployees); err != nil {
		return nil, err
	}
	return s.svc.Employees.GetEmployee(ctx, id), nil
}

// UpdateSalaryRange は給与の一括改定を実行します。
func (s *Session) UpdateSalaryRange(ctx context.Context, adj payroll.Adjustment) (int, error) {
	if err := s.require(CapBulkUpdatePayroll); err != nil {
		return 0, err
	}
	return s.svc.Payroll.UpdateSalaryRange(ctx, adj)
}

// JobTitleReport は職種別の給与総額を返します。
func (s *Session) JobTitleReport(ctx context.Context) ([]payroll.ReportRow, error) {
	if err := s.require(CapGenerateReports); err != nil {
		return nil, err
	}
	return s.svc.Payroll.JobTitleReport(ctx), nil
}

// DivisionReport は部門別の給与総額を返します。
func (s *Session) DivisionReport(ctx context.Context) ([]payroll.ReportRow, error) {
	if err := s.require(CapGenerateReports); err != nil {
		return nil, err
	}
	return s.svc.Payroll.DivisionReport(ctx), nil
}

// PayHistory は本人の給与履歴を返します。社員 ID が紐づいていない場合は空です。
func (s *Session) PayHistory(ctx context.Context) ([]payroll.Record, error) {
	if err := s.require(CapViewOwnPayHistory); err != nil {
		return nil, err
	}
	if s.employeeID == nil {
		return []payroll.Record{}, nil
	}
	return s.svc.Payroll.PayHistory(ctx, *s.employeeID), nil
}

// SalaryInfo は本人向けの給与情報メッセージを返します。
func (s *Session) SalaryInfo() (string, error) {
	if err := s.require(CapViewSalaryInfo); err != nil {
		return "", err
	}
	return salaryInfoMessage, nil
}
