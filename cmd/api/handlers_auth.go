package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffinity/caffinity-api/internal/auth"
	"github.com/caffinity/caffinity-api/internal/config"
	"github.com/caffinity/caffinity-api/internal/user"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body", "debug": err.Error()})
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "All fields are required",
				"details": gin.H{
					"username": req.Username != "",
					"email":    req.Email != "",
					"password": req.Password != "",
				},
			})
			return
		}

		// Pre-check; the 23505 catch below still covers the insert race.
		if _, err := users.FindByEmailOrUsername(c.Request.Context(), req.Email, req.Username); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "User with this email or username already exists",
			})
			return
		} else if !errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed", "debug": err.Error()})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed", "debug": err.Error()})
			return
		}

		u := &user.User{Username: req.Username, Email: req.Email, Password: hash}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "User with this email or username already exists",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database insertion failed", "debug": err.Error()})
			return
		}

		token, err := auth.Sign(cfg.JWTSecret, u.ID, u.Email, u.Username, cfg.TokenValidity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed", "debug": err.Error()})
			return
		}

		log.Printf("[auth] registered user %d (%s)", u.ID, u.Username)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
			"user":    u,
			"token":   token,
		})
	}
}

func loginHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body", "debug": err.Error()})
			return
		}

		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				// Same response as a wrong password; do not leak which one it was.
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed", "debug": err.Error()})
			return
		}
		if !auth.CheckPassword(u.Password, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}

		token, err := auth.Sign(cfg.JWTSecret, u.ID, u.Email, u.Username, cfg.TokenValidity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed", "debug": err.Error()})
			return
		}

		log.Printf("[auth] login user %d (%s)", u.ID, u.Username)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"user":    u,
			"token":   token,
		})
	}
}

func getAuthProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.Identity(c)
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch profile", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
	}
}

func updateAuthProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.Identity(c)

		var patch user.ProfilePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON body", "error": err.Error()})
			return
		}
		if patch.IsEmpty() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nothing to update"})
			return
		}

		u, err := users.UpdateProfile(c.Request.Context(), claims.UserID, patch)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			case errors.Is(err, user.ErrAlreadyExists):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username or email already taken"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile", "error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile updated successfully",
			"data":    gin.H{"user": u},
		})
	}
}
