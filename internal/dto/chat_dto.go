package dto

type OpenRoomInput struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type SendMessageInput struct {
	Body string `json:"body" binding:"required,min=1,max=2000"`
}
