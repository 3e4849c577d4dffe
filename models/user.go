package models

type User struct {
	ID       string `bson:"_id,omitempty" json:"_id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}
