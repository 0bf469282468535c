package payroll

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
)

// Service は給与に関するユースケースをまとめます。
// 読み取りはストア障害時に空の結果を返し、一括改定は失敗を必ず呼び出し側へ返します。
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// UseCase は給与ユースケースの公開インターフェースです。
type UseCase interface {
	PayHistory(ctx context.Context, employeeID int64) []Record
	UpdateSalaryRange(ctx context.Context, adj Adjustment) (int, error)
	JobTitleReport(ctx context.Context) []ReportRow
	DivisionReport(ctx context.Context) []ReportRow
}

// NewService は Service を生成します。
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "payroll").Logger()}
}

// PayHistory は社員の給与履歴を支給日の降順で返します。
func (s *Service) PayHistory(ctx context.Context, employeeID int64) []Record {
	if employeeID <= 0 {
		return []Record{}
	}

	records, err := s.repo.PayHistory(ctx, employeeID)
	if err != nil {
		s.log.Warn().Err(err).Int64("employee_id", employeeID).Msg("pay history lookup failed")
		return []Record{}
	}
	if records == nil {
		return []Record{}
	}
	slices.SortStableFunc(records, func(a, b Record) int { return b.PayDate.Compare(a.PayDate) })
	return records
}

// UpdateSalaryRange は入力を検証したうえで一括改定を実行します。
func (s *Service) UpdateSalaryRange(ctx context.Context, adj Adjustment) (int, error) {
	if err := adj.Validate(); err != nil {
		return 0, err
	}
	return s.repo.UpdateSalaryRange(ctx, adj)
}

// JobTitleReport は職種ごとの給与総額を返します。
func (s *Service) JobTitleReport(ctx context.Context) []ReportRow {
	return s.report(ctx, "job_title", s.repo.TotalPayByJobTitle)
}

// DivisionReport は部門ごとの給与総額を返します。
func (s *Service) DivisionReport(ctx context.Context) []ReportRow {
	return s.report(ctx, "division", s.repo.TotalPayByDivision)
}

func (s *Service) report(ctx context.Context, name string, fetch func(context.Context) ([]ReportRow, error)) []ReportRow {
	rows, err := fetch(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("report", name).Msg("report query failed")
		return []ReportRow{}
	}
	if rows == nil {
		return []ReportRow{}
	}
	return rows
}
