package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/caffinity/caffinity-api/internal/cart"
)

type addToCartRequest struct {
	UserID       int64       `json:"user_id"`
	ProductID    int64       `json:"product_id"`
	ProductName  string      `json:"product_name"`
	ProductPrice json.Number `json:"product_price"`
	ProductImage *string     `json:"product_image"`
	Quantity     int         `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "user_id")
		if !ok {
			return
		}
		items, err := carts.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cart items", "debug": err.Error()})
			return
		}
		if items == nil {
			items = []cart.Item{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"count":     len(items),
			"cart":      items,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func addToCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body", "debug": err.Error()})
			return
		}
		if req.UserID == 0 || req.ProductID == 0 || req.ProductName == "" || req.ProductPrice == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Missing required fields: user_id, product_id, product_name, product_price",
			})
			return
		}
		price, err := decimal.NewFromString(req.ProductPrice.String())
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "product_price must be a non-negative number"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		if req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Quantity must be at least 1"})
			return
		}

		item := &cart.Item{
			UserID:       req.UserID,
			ProductID:    req.ProductID,
			ProductName:  req.ProductName,
			ProductPrice: price.StringFixed(2),
			ProductImage: req.ProductImage,
			Quantity:     req.Quantity,
		}
		updated, err := carts.Add(c.Request.Context(), item)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add item to cart", "debug": err.Error()})
			return
		}
		message := "Item added to cart"
		if updated {
			message = "Cart item updated"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "cartItem": item})
	}
}

func updateCartItemHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Quantity must be at least 1"})
			return
		}
		item, err := carts.UpdateQuantity(c.Request.Context(), id, req.Quantity)
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update cart item", "debug": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart item updated", "cartItem": item})
	}
}

func removeCartItemHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		item, err := carts.Remove(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to remove item from cart", "debug": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart", "cartItem": item})
	}
}

func clearCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "user_id")
		if !ok {
			return
		}
		cleared, err := carts.Clear(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to clear cart", "debug": err.Error()})
			return
		}
		if cleared == nil {
			cleared = []cart.Item{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      fmt.Sprintf("Cleared %d items from cart", len(cleared)),
			"clearedItems": cleared,
			"count":        len(cleared),
		})
	}
}

func cartSummaryHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "user_id")
		if !ok {
			return
		}
		summary, err := carts.Summarize(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get cart summary", "debug": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
	}
}
