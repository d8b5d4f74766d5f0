package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caffinity/caffinity-api/internal/auth"
	"github.com/caffinity/caffinity-api/internal/product"
	"github.com/caffinity/caffinity-api/internal/user"
)

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid " + param})
		return 0, false
	}
	return id, true
}

func listUsersHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch users", "debug": err.Error()})
			return
		}
		if list == nil {
			list = []user.User{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"count":     len(list),
			"users":     list,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func getUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		u, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
	}
}

func getUserProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.Identity(c)
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
	}
}

// updateUserHandler is self-only: the path id must match the authenticated
// identity.
func updateUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		claims := auth.Identity(c)
		if claims.UserID != id {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You are not allowed to update this user"})
			return
		}

		var patch user.ProfilePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON body", "error": err.Error()})
			return
		}
		if patch.IsEmpty() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nothing to update"})
			return
		}

		u, err := users.UpdateProfile(c.Request.Context(), id, patch)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			case errors.Is(err, user.ErrAlreadyExists):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username or email already taken"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user", "error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated successfully", "user": u})
	}
}

func dbCheckHandler(users user.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCount, err := users.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "database": "disconnected", "error": err.Error()})
			return
		}
		productCount, err := products.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "database": "disconnected", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"database": "connected",
			"tables": gin.H{
				"users":    userCount,
				"products": productCount,
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
