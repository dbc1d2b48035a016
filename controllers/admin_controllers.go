package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats mengambil statistik untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats struct {
		Materials    int64   `json:"materials"`
		Menus        int64   `json:"menus"`
		Orders       int64   `json:"orders"`
		Users        int64   `json:"users"`
		TodayOrders  int64   `json:"today_orders"`
		TodayRevenue float64 `json:"today_revenue"`
		OrderStats   struct {
			Pending    int64 `json:"pending"`
			Processing int64 `json:"processing"`
			Completed  int64 `json:"completed"`
			Cancelled  int64 `json:"cancelled"`
		} `json:"order_stats"`
	}

	ac.DB.Model(&models.Material{}).Count(&stats.Materials)
	ac.DB.Model(&models.Menu{}).Count(&stats.Menus)
	ac.DB.Model(&models.Order{}).Count(&stats.Orders)
	ac.DB.Model(&models.User{}).Count(&stats.Users)

	ac.DB.Model(&models.Order{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.TodayOrders)

	ac.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", services.OrderStatusCompleted, startOfDay).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TodayRevenue)

	ac.DB.Model(&models.Order{}).Where("status = ?", services.OrderStatusPending).Count(&stats.OrderStats.Pending)
	ac.DB.Model(&models.Order{}).Where("status = ?", services.OrderStatusProcessing).Count(&stats.OrderStats.Processing)
	ac.DB.Model(&models.Order{}).Where("status = ?", services.OrderStatusCompleted).Count(&stats.OrderStats.Completed)
	ac.DB.Model(&models.Order{}).Where("status = ?", services.OrderStatusCancelled).Count(&stats.OrderStats.Cancelled)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

type topSellingMenu struct {
	MenuName string  `json:"menu_name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

func (ac *AdminController) topSelling(limit int) ([]topSellingMenu, error) {
	var top []topSellingMenu
	err := ac.DB.Model(&models.OrderItem{}).
		Select("order_items.menu_name AS menu_name, SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", services.OrderStatusCompleted).
		Group("order_items.menu_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

// GetSalesReport mengambil laporan penjualan
func (ac *AdminController) GetSalesReport(c *gin.Context) {
	var sales struct {
		TotalSales   float64          `json:"total_sales"`
		TotalOrders  int64            `json:"total_orders"`
		AverageOrder float64          `json:"average_order"`
		TopSelling   []topSellingMenu `json:"top_selling_menu"`
	}

	ac.DB.Model(&models.Order{}).
		Where("status = ?", services.OrderStatusCompleted).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&sales.TotalSales)
	ac.DB.Model(&models.Order{}).
		Where("status = ?", services.OrderStatusCompleted).
		Count(&sales.TotalOrders)

	if sales.TotalOrders > 0 {
		sales.AverageOrder = sales.TotalSales / float64(sales.TotalOrders)
	}

	top, err := ac.topSelling(5)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	sales.TopSelling = top

	utils.RespondJSON(c, http.StatusOK, "Sales report", sales)
}

// ExportData -> CSV order completed untuk diolah di spreadsheet
func (ac *AdminController) ExportData(c *gin.Context) {
	var orders []models.Order
	if err := ac.DB.Preload("Cashier").
		Where("status = ?", services.OrderStatusCompleted).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=sales-%s.csv", time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"order_number", "order_type", "payment_method", "total", "cashier", "created_at"})
	for _, order := range orders {
		paymentMethod := ""
		if order.PaymentMethod != nil {
			paymentMethod = *order.PaymentMethod
		}
		cashierName := ""
		if order.Cashier != nil {
			cashierName = order.Cashier.Name
		}
		writer.Write([]string{
			order.OrderNumber,
			order.OrderType,
			paymentMethod,
			strconv.FormatFloat(order.Total, 'f', 2, 64),
			cashierName,
			order.CreatedAt.Format(time.RFC3339),
		})
	}
}

// ExportPDF -> laporan penjualan dalam PDF
func (ac *AdminController) ExportPDF(c *gin.Context) {
	var totalSales float64
	var totalOrders int64
	ac.DB.Model(&models.Order{}).
		Where("status = ?", services.OrderStatusCompleted).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&totalSales)
	ac.DB.Model(&models.Order{}).
		Where("status = ?", services.OrderStatusCompleted).
		Count(&totalOrders)

	top, err := ac.topSelling(10)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Laporan Penjualan")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Dibuat: %s", time.Now().Format("02 Jan 2006 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 8, "Total penjualan")
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Rp "+utils.FormatCurrency(totalSales))
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 8, "Jumlah order")
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, strconv.FormatInt(totalOrders, 10))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Menu terlaris")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Menu", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Terjual", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, "Pendapatan", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range top {
		pdf.CellFormat(90, 7, row.MenuName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(row.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, "Rp "+utils.FormatCurrency(row.Revenue), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=sales-%s.pdf", time.Now().Format("20060102")))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
