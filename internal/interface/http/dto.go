package handlers

import (
	"time"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,pwd"`
	Name        string `json:"name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name        string `json:"name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
}

type createPostRequest struct {
	Title       string `json:"post_title" binding:"required,title"`
	Body        string `json:"post_body"`
	Description string `json:"post_description"`
}

type updatePostRequest struct {
	Title       *string `json:"post_title" binding:"omitempty,title"`
	Body        *string `json:"post_body"`
	Description *string `json:"post_description"`
}

type listQuery struct {
	Limit  int `form:"limit" binding:"gte=0,lte=100"`
	Offset int `form:"offset" binding:"gte=0"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"gte=0,lte=50"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

type postResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"post_title"`
	Body        string    `json:"post_body"`
	Description string    `json:"post_description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}

func toPostResponse(p *entity.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Body:        p.Body,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []entity.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}
