package dto

type CreateUserInput struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" binding:"required"`
	Role     string  `json:"role" binding:"required,oneof=citizen worker admin"`
	Zone     *string `json:"zone,omitempty"` // required for workers
}

type UpdateUserInput struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=citizen worker admin"`
	Zone     *string `json:"zone,omitempty"`
}
