package session

import "errors"

var (
	// ErrUnknownRole は認識できないロールからセッションを作ろうとした場合に返却されます。
	ErrUnknownRole = errors.New("session: unknown role")
	// ErrForbidden はセッションの許可操作に含まれない操作を呼び出した場合に返却されます。
	ErrForbidden = errors.New("session: operation not permitted")
	// ErrLoggedOut はログアウト済みのセッションを利用した場合に返却されます。
	ErrLoggedOut = errors.New("session: logged out")
)
