package types

type RegisterReq struct {
	UserName string `json:"userName" validate:"required,min=2,max=24"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRsp struct {
	Token       string    `json:"token"`
	ValidAfter  string    `json:"validAfter"`
	ValidBefore string    `json:"validBefore"`
	UserInfo    *UserInfo `json:"userInfo"`
}

type UserInfo struct {
	ID        int    `json:"id"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Activated bool   `json:"activated"`
}

type ActivateReq struct {
	Code string `json:"code" validate:"required"`
}

type ActivateAccountReq struct {
	Nonce string `json:"nonce" query:"nonce" validate:"required"`
}

type UserInfoUpdateReq struct {
	UserName string `json:"userName" validate:"required,min=2,max=24"`
}

type PasswordUpdateReq struct {
	OriginalPassword string `json:"originalPassword" validate:"required"`
	NewPassword      string `json:"newPassword" validate:"required,min=8,max=64"`
}

type PasswordResetRequestReq struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetReq struct {
	Email      string `json:"email" validate:"required,email"`
	ActiveCode string `json:"activeCode" validate:"required"`
	Password   string `json:"password" validate:"required,min=8,max=64"`
}
