package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffinity/caffinity-api/internal/auth"
	"github.com/caffinity/caffinity-api/internal/order"
)

type createOrderRequest struct {
	ShippingAddress *string `json:"shipping_address"`
	PaymentMethod   *string `json:"payment_method"`
}

func createOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.Identity(c)

		// Body is optional; both fields are nullable.
		var req createOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON body", "error": err.Error()})
				return
			}
		}

		o, items, err := orders.CreateFromCart(c.Request.Context(), claims.UserID, req.ShippingAddress, req.PaymentMethod)
		if err != nil {
			if errors.Is(err, order.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cart is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order from cart", "error": err.Error()})
			return
		}

		log.Printf("[order] created order %d with %d items for user %d", o.ID, len(items), claims.UserID)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Order created successfully",
			"data":    gin.H{"order": o, "items": items},
		})
	}
}

func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.Identity(c)
		list, err := orders.ListByUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get user orders", "error": err.Error()})
			return
		}
		if list == nil {
			list = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "data": list})
	}
}

func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		claims := auth.Identity(c)
		o, items, err := orders.GetByID(c.Request.Context(), id, claims.UserID)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get order details", "error": err.Error()})
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"order": o, "items": items}})
	}
}

func confirmOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		claims := auth.Identity(c)
		o, err := orders.Confirm(c.Request.Context(), id, claims.UserID)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				// Covers both a missing order and one owned by another user.
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to confirm order", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order confirmed as completed", "data": o})
	}
}
