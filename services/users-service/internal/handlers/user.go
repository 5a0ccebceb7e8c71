package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RastaBela/ticketing-system/pkg/auth"
	"github.com/RastaBela/ticketing-system/services/users-service/internal/domain"
	"github.com/RastaBela/ticketing-system/services/users-service/internal/service"
)

type UserHandler struct {
	svc *service.UserSvc
}

func NewUserHandler(svc *service.UserSvc) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Routes(r *gin.Engine) {
	g := r.Group("/api/users")
	g.POST("/register", h.Register)

	authed := g.Group("", auth.JWTAuth())
	authed.POST("", auth.RequireRole(auth.RoleAdmin), h.Create)
	authed.PUT("/:id", h.Update)
	authed.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), h.Delete)
	authed.GET("/:id", h.Get)
	authed.GET("", auth.RequireRole(auth.RoleAdmin), h.List)
}

type userInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
}

// POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var in userInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// self-registration never grants elevated roles
	if in.Role == auth.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden action: admin only"})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in.Firstname, in.Lastname, in.Email, in.Password, in.Role)
	if err != nil {
		if u != nil {
			// committed locally, event publish failed
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "user": u})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while registering the user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": u})
}

// POST /api/users (admin)
func (h *UserHandler) Create(c *gin.Context) {
	var in userInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in.Firstname, in.Lastname, in.Email, in.Password, in.Role)
	if err != nil {
		if u != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "user": u})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while creating the user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User has been created", "user": u})
}

// PUT /api/users/:id (self or admin)
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	sub, _ := c.Get("sub")
	role, _ := c.Get("role")
	if sub != id && role != auth.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: a user can only update their own account"})
		return
	}
	var in struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.Role != "" && role != auth.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden action: admin only"})
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, in.Firstname, in.Lastname, in.Email, in.Password, in.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "This user doesn't exist"})
		case u != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "user": u})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while updating the user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User has been successfully updated", "user": u})
}

// DELETE /api/users/:id (admin)
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "This user doesn't exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while deleting the user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The user has been successfully deleted"})
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "This user doesn't exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the user"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
