package models

// Every backend response carries a success flag and an optional message next
// to its payload.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AllPostsResponse struct {
	Envelope
	BlogCount int    `json:"BlogCount"`
	Blogs     []Post `json:"blogs"`
}

type UserPostsResponse struct {
	Envelope
	UserBlog struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
		Blogs    []Post `json:"blogs"`
	} `json:"userBlog"`
}

type CreatePostResponse struct {
	Envelope
	NewBlog Post `json:"newBlog"`
}

type PostResponse struct {
	Envelope
	Blog Post `json:"blog"`
}

type UserResponse struct {
	Envelope
	User User `json:"user"`
}
