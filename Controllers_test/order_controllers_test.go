package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/controllers"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.Menu{},
		&models.MenuMaterial{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockHistory{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	orderCtrl := controllers.NewOrderController(db)

	router.GET("/orders/:order_id/status", orderCtrl.GetOrderStatus)

	customer := router.Group("/", middlewares.AuthMiddleware(), middlewares.RequireRole("customer"))
	customer.POST("/orders/customer", orderCtrl.CreateCustomerOrder)
	customer.GET("/orders/my-orders", orderCtrl.GetMyOrders)

	cashier := router.Group("/", middlewares.AuthMiddleware(), middlewares.RequireRole("cashier", "admin"))
	cashier.POST("/orders/cashier", orderCtrl.CreateCashierOrder)
	cashier.POST("/orders/:order_id/process", orderCtrl.ProcessOrder)
	cashier.GET("/orders/pending", orderCtrl.GetPendingOrders)

	return router
}

func seedOrderUser(t *testing.T, db *gorm.DB, name, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@resto.local", name),
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

func seedMenuWithStock(t *testing.T, db *gorm.DB, name string, price float64, stock, needed int) (models.Menu, models.Material) {
	t.Helper()
	material := models.Material{Name: name + " bahan", Stock: stock, Unit: "gram", MinStock: 5}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("failed to seed material: %v", err)
	}
	menu := models.Menu{Name: name, Price: price, IsActive: true}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	mm := models.MenuMaterial{MenuID: menu.ID, MaterialID: material.ID, QuantityNeeded: needed}
	if err := db.Create(&mm).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return menu, material
}

func doAuthJSON(router *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateCustomerOrderPending(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, token := seedOrderUser(t, db, "pelanggan", "customer")
	menu, material := seedMenuWithStock(t, db, "Nasi Ayam", 20000, 10, 3)

	w := doAuthJSON(router, "POST", "/orders/customer", token, map[string]interface{}{
		"customer_name": "Pelanggan",
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(40000), data["total"])

	var order models.Order
	assert.NoError(t, db.Preload("OrderItems").First(&order).Error)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "customer", order.OrderType)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, menu.Name, order.OrderItems[0].MenuName)
	assert.Equal(t, float64(40000), order.OrderItems[0].Subtotal)

	// Stok belum dipotong sebelum kasir memproses
	var after models.Material
	db.First(&after, material.ID)
	assert.Equal(t, 10, after.Stock)
}

func TestCreateCustomerOrderEmptyItems(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, token := seedOrderUser(t, db, "pelanggan", "customer")

	w := doAuthJSON(router, "POST", "/orders/customer", token, map[string]interface{}{
		"customer_name": "Pelanggan",
		"items":         []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateCustomerOrderUnavailableMenu(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, token := seedOrderUser(t, db, "pelanggan", "customer")
	menu, _ := seedMenuWithStock(t, db, "Habis", 15000, 1, 3)

	w := doAuthJSON(router, "POST", "/orders/customer", token, map[string]interface{}{
		"customer_name": "Pelanggan",
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "tidak tersedia")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateCustomerOrderRequiresRole(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, token := seedOrderUser(t, db, "kasir", "cashier")
	menu, _ := seedMenuWithStock(t, db, "Nasi", 10000, 10, 1)

	w := doAuthJSON(router, "POST", "/orders/customer", token, map[string]interface{}{
		"customer_name": "Kasir Nyasar",
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateCashierOrderDeductsStockAndChange(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, token := seedOrderUser(t, db, "kasir", "cashier")
	menu, material := seedMenuWithStock(t, db, "Bakso", 15000, 10, 3)

	w := doAuthJSON(router, "POST", "/orders/cashier", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 2},
		},
		"payment_method": "cash",
		"paid_amount":    50000,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(30000), data["total"])
	assert.Equal(t, float64(20000), data["change"])

	var order models.Order
	assert.NoError(t, db.First(&order).Error)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, "cashier", order.OrderType)

	// Stok langsung terpotong: 2 x 3 = 6
	var after models.Material
	db.First(&after, material.ID)
	assert.Equal(t, 4, after.Stock)

	var history models.StockHistory
	assert.NoError(t, db.Where("material_id = ?", material.ID).First(&history).Error)
	assert.Equal(t, -6, history.QuantityChange)
	assert.Equal(t, "out", history.Type)
}

func TestProcessPendingOrderThenReprocess(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, customerToken := seedOrderUser(t, db, "pelanggan", "customer")
	_, cashierToken := seedOrderUser(t, db, "kasir", "cashier")
	menu, material := seedMenuWithStock(t, db, "Gado Gado", 17000, 12, 2)

	w := doAuthJSON(router, "POST", "/orders/customer", customerToken, map[string]interface{}{
		"customer_name": "Pelanggan",
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 3},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	orderID := int(createResp["data"].(map[string]interface{})["order_id"].(float64))

	// Kasir memproses pembayaran cash
	w = doAuthJSON(router, "POST", fmt.Sprintf("/orders/%d/process", orderID), cashierToken, map[string]interface{}{
		"payment_method": "cash",
		"paid_amount":    60000,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var processResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &processResp))
	processData := processResp["data"].(map[string]interface{})
	// Kembalian dari total tersimpan: 60000 - 51000
	assert.Equal(t, float64(9000), processData["change_amount"])

	var after models.Material
	db.First(&after, material.ID)
	assert.Equal(t, 6, after.Stock)

	// Proses ulang ditolak 404 tanpa potong stok kedua
	w = doAuthJSON(router, "POST", fmt.Sprintf("/orders/%d/process", orderID), cashierToken, map[string]interface{}{
		"payment_method": "cash",
		"paid_amount":    60000,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	db.First(&after, material.ID)
	assert.Equal(t, 6, after.Stock)
}

func TestPendingOrdersQueueForCashier(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, customerToken := seedOrderUser(t, db, "pelanggan", "customer")
	_, cashierToken := seedOrderUser(t, db, "kasir", "cashier")
	menu, _ := seedMenuWithStock(t, db, "Pecel", 12000, 20, 1)

	for i := 0; i < 2; i++ {
		w := doAuthJSON(router, "POST", "/orders/customer", customerToken, map[string]interface{}{
			"customer_name": "Pelanggan",
			"items": []map[string]interface{}{
				{"menu_id": menu.ID, "quantity": 1},
			},
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := doAuthJSON(router, "GET", "/orders/pending", cashierToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	assert.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "pelanggan", first["customer_name"])
	items := first["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestGetMyOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	_, tokenA := seedOrderUser(t, db, "pelangganA", "customer")
	_, tokenB := seedOrderUser(t, db, "pelangganB", "customer")
	menu, _ := seedMenuWithStock(t, db, "Rawon", 25000, 20, 1)

	w := doAuthJSON(router, "POST", "/orders/customer", tokenA, map[string]interface{}{
		"customer_name": "A",
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doAuthJSON(router, "GET", "/orders/my-orders", tokenB, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var respB map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respB))
	assert.Len(t, respB["data"].([]interface{}), 0)

	w = doAuthJSON(router, "GET", "/orders/my-orders", tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var respA map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respA))
	assert.Len(t, respA["data"].([]interface{}), 1)
}

func TestGetOrderStatusPublic(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	order := models.Order{OrderNumber: "ORD-20260829-007", Total: 12000, Status: "pending", OrderType: "customer"}
	assert.NoError(t, db.Create(&order).Error)

	w := doAuthJSON(router, "GET", fmt.Sprintf("/orders/%d/status", order.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ORD-20260829-007", data["order_number"])
	assert.Equal(t, "pending", data["status"])
}
