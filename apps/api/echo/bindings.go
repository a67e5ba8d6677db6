package echoapi

import "github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return core.Validate.Struct(r)
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

type StatusResponse struct {
	Backend string `json:"backend"`
	Remote  bool   `json:"remote"`
}
