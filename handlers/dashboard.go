package handlers

import (
	"net/http"

	"bitbucket.org/bharatisweets/sweets_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func GetDashboardSummary(c *gin.Context) {
	summary, err := reports.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func GetDashboardSales(c *gin.Context) {
	sales, err := reports.GetDashboardSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func GetDashboardExpenses(c *gin.Context) {
	expenses, err := reports.GetDashboardExpenses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func GetPopularProducts(c *gin.Context) {
	products, err := reports.GetPopularProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func GetPendingOrders(c *gin.Context) {
	orders, err := reports.GetPendingOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
