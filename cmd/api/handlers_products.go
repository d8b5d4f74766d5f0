package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffinity/caffinity-api/internal/product"
)

func listProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
			return
		}
		if list == nil {
			list = []product.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "products": list})
	}
}

func flashSaleHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListFlashSale(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch flash sale products"})
			return
		}
		if list == nil {
			list = []product.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "products": list})
	}
}
