package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/router"
	"github.com/yeremiapane/resto-pos/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama:
// 0. Seed user admin/kasir/customer, login -> token
// 1. Admin membuat material + menu dengan resep
// 2. Customer melihat menu available lalu membuat order (pending)
// 3. Kasir melihat antrian lalu memproses pembayaran
// 4. Stok terpotong, history tercatat, status order bisa dicek publik
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)

	adminToken := loginAs(t, r, "admin@resto.local")
	customerToken := loginAs(t, r, "customer@resto.local")
	cashierToken := loginAs(t, r, "cashier@resto.local")

	materialID := createMaterialTest(t, r, adminToken)
	menuID := createMenuTest(t, r, adminToken, materialID)

	checkAvailableMenusTest(t, r, menuID)

	orderID := createCustomerOrderTest(t, r, customerToken, menuID)

	checkPendingQueueTest(t, r, cashierToken, orderID)

	processOrderTest(t, r, cashierToken, orderID)

	checkStockAfterProcessTest(t, r, adminToken, materialID)

	checkOrderStatusTest(t, r, orderID)
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Material{},
		&models.Menu{},
		&models.MenuMaterial{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockHistory{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	for _, seed := range []struct {
		name, email, role string
	}{
		{"Test Admin", "admin@resto.local", "admin"},
		{"Test Kasir", "cashier@resto.local", "cashier"},
		{"Test Customer", "customer@resto.local", "customer"},
	} {
		db.Create(&models.User{
			Name:     seed.name,
			Email:    seed.email,
			Password: string(hashed),
			Role:     seed.role,
			IsActive: true,
		})
	}

	return db
}

func loginAs(t *testing.T, r *gin.Engine, email string) string {
	body := map[string]string{
		"email":    email,
		"password": "secret123",
	}
	bodyBytes, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("loginAs(%s): code=%d, body=%s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status || resp.Data.Token == "" {
		t.Fatalf("loginAs(%s): token empty, body=%s", email, w.Body.String())
	}
	return resp.Data.Token
}

func doRequest(r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createMaterialTest -> POST /admin/materials => 201
func createMaterialTest(t *testing.T, r *gin.Engine, token string) uint {
	w := doRequest(r, http.MethodPost, "/admin/materials", token, map[string]interface{}{
		"name":  "Ayam Fillet",
		"stock": 10,
		"unit":  "potong",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("createMaterialTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ID == 0 {
		t.Fatalf("createMaterialTest: missing id, body=%s", w.Body.String())
	}
	return resp.Data.ID
}

// createMenuTest -> POST /admin/menus dengan resep 3 potong per porsi
func createMenuTest(t *testing.T, r *gin.Engine, token string, materialID uint) uint {
	w := doRequest(r, http.MethodPost, "/admin/menus", token, map[string]interface{}{
		"name":  "Ayam Goreng",
		"price": 20000,
		"materials": []map[string]interface{}{
			{"material_id": materialID, "quantity_needed": 3},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("createMenuTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ID == 0 {
		t.Fatalf("createMenuTest: missing id, body=%s", w.Body.String())
	}
	return resp.Data.ID
}

// checkAvailableMenusTest -> GET /menus/available => max_servings 3
func checkAvailableMenusTest(t *testing.T, r *gin.Engine, menuID uint) {
	w := doRequest(r, http.MethodGet, "/menus/available", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkAvailableMenusTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			ID          uint `json:"id"`
			IsAvailable bool `json:"is_available"`
			MaxServings int  `json:"max_servings"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 1 || resp.Data[0].ID != menuID {
		t.Fatalf("checkAvailableMenusTest: unexpected data, body=%s", w.Body.String())
	}
	if !resp.Data[0].IsAvailable || resp.Data[0].MaxServings != 3 {
		t.Fatalf("checkAvailableMenusTest: want available with 3 servings, body=%s", w.Body.String())
	}
}

// createCustomerOrderTest -> POST /orders/customer => pending, stok utuh
func createCustomerOrderTest(t *testing.T, r *gin.Engine, token string, menuID uint) uint {
	w := doRequest(r, http.MethodPost, "/orders/customer", token, map[string]interface{}{
		"customer_name": "Test Customer",
		"items": []map[string]interface{}{
			{"menu_id": menuID, "quantity": 2},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("createCustomerOrderTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			OrderID uint    `json:"order_id"`
			Total   float64 `json:"total"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.OrderID == 0 {
		t.Fatalf("createCustomerOrderTest: missing order_id, body=%s", w.Body.String())
	}
	if resp.Data.Total != 40000 {
		t.Fatalf("createCustomerOrderTest: want total 40000, got %v", resp.Data.Total)
	}
	return resp.Data.OrderID
}

// checkPendingQueueTest -> GET /orders/pending => order muncul di antrian
func checkPendingQueueTest(t *testing.T, r *gin.Engine, token string, orderID uint) {
	w := doRequest(r, http.MethodGet, "/orders/pending", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkPendingQueueTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			ID           uint   `json:"id"`
			CustomerName string `json:"customer_name"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 1 || resp.Data[0].ID != orderID {
		t.Fatalf("checkPendingQueueTest: order not in queue, body=%s", w.Body.String())
	}
	if resp.Data[0].CustomerName != "Test Customer" {
		t.Fatalf("checkPendingQueueTest: want customer name, got %s", resp.Data[0].CustomerName)
	}
}

// processOrderTest -> POST /orders/:id/process => completed + kembalian
func processOrderTest(t *testing.T, r *gin.Engine, token string, orderID uint) {
	url := "/orders/" + strconv.FormatUint(uint64(orderID), 10) + "/process"
	w := doRequest(r, http.MethodPost, url, token, map[string]interface{}{
		"payment_method": "cash",
		"paid_amount":    50000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("processOrderTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ChangeAmount float64 `json:"change_amount"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ChangeAmount != 10000 {
		t.Fatalf("processOrderTest: want change 10000, got %v", resp.Data.ChangeAmount)
	}

	// Proses kedua harus ditolak
	w = doRequest(r, http.MethodPost, url, token, map[string]interface{}{
		"payment_method": "cash",
		"paid_amount":    50000,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("processOrderTest reprocess: want 404, got %d", w.Code)
	}
}

// checkStockAfterProcessTest -> stok 10 - (2x3) = 4 + history "out"
func checkStockAfterProcessTest(t *testing.T, r *gin.Engine, token string, materialID uint) {
	url := "/admin/materials/" + strconv.FormatUint(uint64(materialID), 10) + "/history"
	w := doRequest(r, http.MethodGet, url, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkStockAfterProcessTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Material struct {
				Stock int `json:"stock"`
			} `json:"material"`
			History []struct {
				QuantityChange int    `json:"quantity_change"`
				StockBefore    int    `json:"stock_before"`
				StockAfter     int    `json:"stock_after"`
				Type           string `json:"type"`
			} `json:"history"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Data.Material.Stock != 4 {
		t.Fatalf("checkStockAfterProcessTest: want stock 4, got %d", resp.Data.Material.Stock)
	}
	if len(resp.Data.History) != 1 {
		t.Fatalf("checkStockAfterProcessTest: want 1 history row, got %d", len(resp.Data.History))
	}
	row := resp.Data.History[0]
	if row.Type != "out" || row.QuantityChange != -6 || row.StockBefore != 10 || row.StockAfter != 4 {
		t.Fatalf("checkStockAfterProcessTest: unexpected history row %+v", row)
	}
}

// checkOrderStatusTest -> endpoint publik status order => completed
func checkOrderStatusTest(t *testing.T, r *gin.Engine, orderID uint) {
	url := "/orders/" + strconv.FormatUint(uint64(orderID), 10) + "/status"
	w := doRequest(r, http.MethodGet, url, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkOrderStatusTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != "completed" {
		t.Fatalf("checkOrderStatusTest: want completed, got %s", resp.Data.Status)
	}
}
