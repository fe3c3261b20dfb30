package dto

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type VerifyContractResponse struct {
	ContractID string `json:"contract_id"`
	Valid      bool   `json:"valid"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
