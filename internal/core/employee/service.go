package employee

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Service は社員情報の参照ユースケースをまとめます。
// 読み取りはストア障害時に空の結果を返します。
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// UseCase は社員参照ユースケースの公開インターフェースです。
type UseCase interface {
	SearchEmployees(ctx context.Context, term string) []SearchResult
	SearchBySSN(ctx context.Context, ssn string) []SearchResult
	GetEmployee(ctx context.Context, id int64) *Employee
}

// NewService は Service を生成します。
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "employee").Logger()}
}

// SearchEmployees は名前または ID で社員を検索します。
func (s *Service) SearchEmployees(ctx context.Context, term string) []SearchResult {
	term = strings.TrimSpace(term)
	if term == "" {
		return []SearchResult{}
	}

	results, err := s.repo.Search(ctx, term)
	if err != nil {
		s.log.Warn().Err(err).Str("term", term).Msg("employee search failed")
		return []SearchResult{}
	}
	return nonNil(results)
}

// SearchBySSN は SSN の完全一致で社員を検索します。
func (s *Service) SearchBySSN(ctx context.Context, ssn string) []SearchResult {
	ssn = strings.TrimSpace(ssn)
	if ssn == "" {
		return []SearchResult{}
	}

	results, err := s.repo.SearchBySSN(ctx, ssn)
	if err != nil {
		s.log.Warn().Err(err).Msg("employee ssn search failed")
		return []SearchResult{}
	}
	return nonNil(results)
}

// GetEmployee は ID で社員を取得します。見つからない場合は nil を返します。
func (s *Service) GetEmployee(ctx context.Context, id int64) *Employee {
	if id <= 0 {
		return nil
	}

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrEmployeeNotFound) {
			s.log.Warn().Err(err).Int64("employee_id", id).Msg("employee lookup failed")
		}
		return nil
	}
	return found
}

func nonNil(results []SearchResult) []SearchResult {
	if results == nil {
		return []SearchResult{}
	}
	return results
}
