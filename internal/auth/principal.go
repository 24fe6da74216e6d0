package auth

import "grocery/internal/domain/model"

// 認証済みの操作主体。JWTミドルウェアが組み立てて
// リクエストコンテキストに入れる。
// roleは文字列の場当たり参照ではなく、型付きで持ち回る。
type Principal struct {
	UserID int64
	Role   model.Role
}

func (p Principal) IsManager() bool {
	return p.Role == model.RoleManager
}
