package auth

import "go-dayoff/internal/directory"

type LoginRequest struct {
	ID     string `json:"id" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

type AuthResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Allowance   int    `json:"allowance"`
}

func authResponseFromAccount(a directory.Account) AuthResponse {
	return AuthResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		Allowance:   a.Allowance,
	}
}
