package employee

import "context"

// Repository は社員情報の読み取りを行うインターフェースです。
type Repository interface {
	// Search は名前の部分一致(大文字小文字を区別しない)または ID の完全一致で検索します。
	Search(ctx context.Context, term string) ([]SearchResult, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	// SearchBySSN は SSN の完全一致で検索します。
	SearchBySSN(ctx context.Context, ssn string) ([]SearchResult, error)
}
