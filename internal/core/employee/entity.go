package employee

import "github.com/shopspring/decimal"

// Employee は社員エンティティです。ID は採番後に変化しません。
// 職種や部門に未所属の社員は JobTitleID / DivisionID が nil になります。
type Employee struct {
	ID         int64
	Name       string
	SSN        string
	JobTitleID *int64
	DivisionID *int64
}

// SearchResult は社員検索の結果行です。Salary は最新の給与額です。
type SearchResult struct {
	ID     int64
	Name   string
	Salary decimal.Decimal
}
