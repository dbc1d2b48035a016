package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type orderItemReq struct {
	MenuID   uint `json:"menu_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// CreateCustomerOrder -> order customer masuk antrian kasir dengan status
// pending; stok belum dipotong sampai kasir memproses pembayaran.
func (oc *OrderController) CreateCustomerOrder(c *gin.Context) {
	userID, _ := c.Get("user_id")
	customerID, ok := userID.(uint)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		CustomerName string         `json:"customer_name"`
		Items        []orderItemReq `json:"items"`
		Notes        *string        `json:"notes"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Items tidak boleh kosong"))
		return
	}
	if strings.TrimSpace(body.CustomerName) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Nama harus diisi"))
		return
	}

	orderNumber, err := services.GenerateOrderNumber(oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tx := oc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	// Re-cek ketersediaan per item sebelum insert
	for _, item := range body.Items {
		available, menu, err := services.MenuOrderable(tx, item.MenuID)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("menu %d tidak ditemukan", item.MenuID))
			return
		}
		if !available {
			tx.Rollback()
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("Menu \"%s\" tidak tersedia", menu.Name))
			return
		}
	}

	order := models.Order{
		CustomerID:  &customerID,
		OrderNumber: orderNumber,
		Status:      services.OrderStatusPending,
		OrderType:   services.OrderTypeCustomer,
		Notes:       body.Notes,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total float64
	for _, item := range body.Items {
		var menu models.Menu
		if err := tx.First(&menu, item.MenuID).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		subtotal := float64(item.Quantity) * menu.Price
		total += subtotal

		menuID := menu.ID
		orderItem := models.OrderItem{
			OrderID:  order.ID,
			MenuID:   &menuID,
			MenuName: menu.Name,
			Quantity: item.Quantity,
			Price:    menu.Price,
			Subtotal: subtotal,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		order.OrderItems = append(order.OrderItems, orderItem)
	}

	order.Total = total
	if err := tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("total", total).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderCreated(order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})
}

// CreateCashierOrder -> penjualan langsung di kasir: order langsung
// completed dan stok dipotong dalam transaksi yang sama.
func (oc *OrderController) CreateCashierOrder(c *gin.Context) {
	userID, _ := c.Get("user_id")
	cashierID, ok := userID.(uint)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		Items         []orderItemReq `json:"items"`
		PaymentMethod string         `json:"payment_method" binding:"required"`
		PaidAmount    float64        `json:"paid_amount"`
		Notes         *string        `json:"notes"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Items tidak boleh kosong"))
		return
	}

	orderNumber, err := services.GenerateOrderNumber(oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tx := oc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	// Hitung total dari harga menu tersimpan
	var total float64
	type pricedItem struct {
		menu models.Menu
		qty  int
	}
	priced := make([]pricedItem, 0, len(body.Items))
	for _, item := range body.Items {
		var menu models.Menu
		if err := tx.First(&menu, item.MenuID).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("menu %d tidak ditemukan", item.MenuID))
			return
		}
		total += float64(item.Quantity) * menu.Price
		priced = append(priced, pricedItem{menu: menu, qty: item.Quantity})
	}

	changeAmount := 0.0
	if body.PaymentMethod == services.PaymentMethodCash {
		changeAmount = body.PaidAmount - total
		if changeAmount < 0 {
			changeAmount = 0
		}
	}

	order := models.Order{
		CashierID:     &cashierID,
		OrderNumber:   orderNumber,
		Total:         total,
		Status:        services.OrderStatusCompleted,
		OrderType:     services.OrderTypeCashier,
		PaymentMethod: &body.PaymentMethod,
		PaidAmount:    &body.PaidAmount,
		ChangeAmount:  &changeAmount,
		Notes:         body.Notes,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, p := range priced {
		menuID := p.menu.ID
		subtotal := float64(p.qty) * p.menu.Price
		orderItem := models.OrderItem{
			OrderID:  order.ID,
			MenuID:   &menuID,
			MenuName: p.menu.Name,
			Quantity: p.qty,
			Price:    p.menu.Price,
			Subtotal: subtotal,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		order.OrderItems = append(order.OrderItems, orderItem)
	}

	if err := services.DeductStockForOrder(tx, &order); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderProcessed(order)

	utils.RespondJSON(c, http.StatusCreated, "Order completed", gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"change":       changeAmount,
	})
}

// ProcessOrder -> kasir menyelesaikan order pending (pending -> completed)
func (oc *OrderController) ProcessOrder(c *gin.Context) {
	userID, _ := c.Get("user_id")
	cashierID, ok := userID.(uint)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	type reqBody struct {
		PaymentMethod string  `json:"payment_method" binding:"required"`
		PaidAmount    float64 `json:"paid_amount"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Kembalian dihitung dari total tersimpan, hanya untuk cash
	var pending models.Order
	if err := oc.DB.First(&pending, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrOrderNotPending)
		return
	}

	changeAmount := 0.0
	if body.PaymentMethod == services.PaymentMethodCash {
		changeAmount = body.PaidAmount - pending.Total
		if changeAmount < 0 {
			changeAmount = 0
		}
	}

	order, err := services.ProcessOrder(oc.DB, uint(orderID), cashierID, body.PaymentMethod, body.PaidAmount, changeAmount)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotPending) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.ErrorLogger.Printf("Error processing order %d: %v", orderID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to process order"))
		return
	}

	events.BroadcastOrderProcessed(*order)
	events.BroadcastStaffNotification(fmt.Sprintf("Order %s selesai diproses", order.OrderNumber))

	utils.RespondJSON(c, http.StatusOK, "Order berhasil diproses", gin.H{
		"order_id":      order.ID,
		"order_number":  order.OrderNumber,
		"total":         order.Total,
		"change_amount": changeAmount,
	})
}

// GetPendingOrders -> antrian order customer untuk kasir, terlama dulu
func (oc *OrderController) GetPendingOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").
		Preload("Customer").
		Where("status = ? AND order_type = ?", services.OrderStatusPending, services.OrderTypeCustomer).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type pendingOrder struct {
		ID           uint               `json:"id"`
		OrderNumber  string             `json:"order_number"`
		Total        float64            `json:"total"`
		CustomerName string             `json:"customer_name"`
		CreatedAt    time.Time          `json:"created_at"`
		Items        []models.OrderItem `json:"items"`
	}

	result := make([]pendingOrder, 0, len(orders))
	for _, order := range orders {
		name := "Guest"
		if order.Customer != nil {
			name = order.Customer.Name
		}
		result = append(result, pendingOrder{
			ID:           order.ID,
			OrderNumber:  order.OrderNumber,
			Total:        order.Total,
			CustomerName: name,
			CreatedAt:    order.CreatedAt,
			Items:        order.OrderItems,
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Pending orders", result)
}

// GetOrderHistory -> 100 order terakhir untuk kasir
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").
		Preload("Customer").
		Preload("Cashier").
		Order("created_at DESC").
		Limit(100).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order history", orders)
}

// GetMyOrders -> order milik customer yang sedang login, terbaru dulu
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, _ := c.Get("user_id")
	customerID, ok := userID.(uint)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// GetOrderStatus -> endpoint publik untuk cek status order
func (oc *OrderController) GetOrderStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Select("id", "order_number", "status", "total").
		First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status", gin.H{
		"id":           order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"total":        order.Total,
	})
}

// GetOrderQR -> PNG berisi QR link status order, untuk dicetak di tiket
func (oc *OrderController) GetOrderQR(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Select("id", "order_number").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	statusURL := fmt.Sprintf("%s/orders/%d/status", baseURL, order.ID)
	png, err := qrcode.Encode(statusURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
