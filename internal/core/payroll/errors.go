package payroll

import "errors"

var (
	// ErrInvalidPercent は改定率が -100 未満の場合に返却されます。
	ErrInvalidPercent = errors.New("payroll: percent must not be less than -100")
	// ErrInvalidRange は給与範囲が不正な場合に返却されます。
	ErrInvalidRange = errors.New("payroll: invalid salary range")
	// ErrStoreUnavailable はストアへ接続できない場合に返却されます。
	ErrStoreUnavailable = errors.New("payroll: store unavailable")
	// ErrTransactionFailed は一括更新がロールバックされた場合に返却されます。
	ErrTransactionFailed = errors.New("payroll: salary update rolled back")
	// ErrBatchMismatch は書き込まれた行数がバッチの件数と一致しない場合に返却されます。
	ErrBatchMismatch = errors.New("payroll: batch affected unexpected number of rows")
)
