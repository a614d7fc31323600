package model

type LoginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	Staff StaffView `json:"staff"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type CreateStaffRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type ReorderUsersRequest struct {
	UserIDs []int `json:"user_ids" binding:"required"`
}

type RestoreBackupRequest struct {
	Name string `json:"name" binding:"required"`
}
