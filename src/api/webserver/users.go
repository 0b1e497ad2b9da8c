package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Wraptron/incubation-backend/src/api/review"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

type Users struct {
	users review.UserRepo
}

func NewUsers(users review.UserRepo) Users {
	return Users{users: users}
}

func (h Users) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,max=128"`
		Email string `json:"email" binding:"required,email,max=256"`
		Phone string `json:"phone" binding:"max=32"`
		Role  string `json:"role" binding:"required,oneof=manager reviewer startup"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	u := &types.UserProfile{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h Users) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h Users) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h Users) Update(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,max=128"`
		Email string `json:"email" binding:"required,email,max=256"`
		Phone string `json:"phone" binding:"max=32"`
		Role  string `json:"role" binding:"required,oneof=manager reviewer startup"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	u.Name = req.Name
	u.Email = req.Email
	u.Phone = req.Phone
	u.Role = req.Role
	if err := h.users.Update(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h Users) Delete(c *gin.Context) {
	deleted, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
