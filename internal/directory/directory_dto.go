package directory

type CreateAccountRequest struct {
	ID          string `json:"id" binding:"required"`
	Secret      string `json:"secret" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"omitempty,oneof=standard admin"`
	Allowance   int    `json:"allowance" binding:"omitempty,min=0"`
}

type UpdateAllowanceRequest struct {
	Allowance *int `json:"allowance" binding:"required,min=0"`
}

type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type ResetSecretRequest struct {
	Secret string `json:"secret" binding:"required"`
}

type ChangeSecretRequest struct {
	CurrentSecret string `json:"current_secret" binding:"required"`
	NewSecret     string `json:"new_secret" binding:"required"`
	ConfirmSecret string `json:"confirm_secret" binding:"required,eqfield=NewSecret"`
}

type AccountResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Allowance   int    `json:"allowance"`
}
