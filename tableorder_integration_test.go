package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/router"
	"github.com/dineqr/table-order/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow:
// 0. seed a staff user and a dish, login -> token
// 1. customer fills the cart and submits for table 7
// 2. staff sees the order in the active partition
// 3. preparing -> paid (payment completes the order in the same write)
// 4. customer sees the final state through the device filter
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	token := loginTest(t, r)

	orderID := submitOrderTest(t, r, db)

	checkStaffSeesOrder(t, r, token, orderID)

	transitionTest(t, r, token, orderID)

	checkCustomerView(t, r, orderID)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique shared-cache DSN per test so pooled connections share one
	// database without tests sharing state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Menu{},
		&models.MenuOption{},
		&models.CartLine{},
		&models.CartAddOn{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderAddOn{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123!"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashed),
		Role:     "admin",
	})

	db.Create(&models.Menu{
		Name:     "Dal Makhni",
		Price:    180,
		Category: "Veg",
		Options: []models.MenuOption{
			{Name: "Half", Price: 120, Kind: models.OptionKindPortion},
			{Name: "Extra Butter", Price: 20, Kind: models.OptionKindAddOn},
		},
	})

	db.Create(&models.Table{TableNumber: "7"})

	return db
}

func doJSON(r *gin.Engine, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginTest(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/login", map[string]string{
		"email":    "admin@example.com",
		"password": "secret123!",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func submitOrderTest(t *testing.T, r *gin.Engine, db *gorm.DB) uint {
	t.Helper()

	var dish models.Menu
	require.NoError(t, db.Preload("Options").Where("name = ?", "Dal Makhni").First(&dish).Error)

	var halfID, butterID uint
	for _, opt := range dish.Options {
		switch opt.Name {
		case "Half":
			halfID = opt.ID
		case "Extra Butter":
			butterID = opt.ID
		}
	}

	customerHeaders := map[string]string{"X-Device-ID": "device_integ"}

	w := doJSON(r, http.MethodPost, "/cart/lines", map[string]interface{}{
		"menu_id":           dish.ID,
		"quantity":          2,
		"portion_option_id": halfID,
		"add_on_option_ids": []uint{butterID},
	}, customerHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/orders", map[string]interface{}{
		"table_number": "7",
	}, customerHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			ID          uint    `json:"id"`
			TotalAmount float64 `json:"total_amount"`
			Status      string  `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// (120 + 20) * 2
	assert.Equal(t, 280.0, resp.Data.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, resp.Data.Status)

	// The cart is consumed by the submission.
	w = doJSON(r, http.MethodGet, "/cart", nil, customerHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Data struct {
			Lines []json.RawMessage `json:"lines"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Data.Lines)

	return resp.Data.ID
}

func checkStaffSeesOrder(t *testing.T, r *gin.Engine, token string, orderID uint) {
	t.Helper()

	auth := map[string]string{"Authorization": "Bearer " + token}
	w := doJSON(r, http.MethodGet, "/admin/orders", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Active []struct {
				ID uint `json:"id"`
			} `json:"active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Active, 1)
	assert.Equal(t, orderID, resp.Data.Active[0].ID)

	// Staff routes are closed without a token.
	w = doJSON(r, http.MethodGet, "/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func transitionTest(t *testing.T, r *gin.Engine, token string, orderID uint) {
	t.Helper()

	auth := map[string]string{"Authorization": "Bearer " + token}
	base := fmt.Sprintf("/admin/orders/%d", orderID)

	w := doJSON(r, http.MethodPost, base+"/preparing", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, base+"/pay", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Status        string `json:"status"`
			PaymentStatus string `json:"payment_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.OrderStatusCompleted, resp.Data.Status)
	assert.Equal(t, models.PaymentStatusPaid, resp.Data.PaymentStatus)

	// Paid means frozen.
	w = doJSON(r, http.MethodPost, base+"/preparing", nil, auth)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func checkCustomerView(t *testing.T, r *gin.Engine, orderID uint) {
	t.Helper()

	w := doJSON(r, http.MethodGet, "/orders", nil, map[string]string{"X-Device-ID": "device_integ"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			ID            uint   `json:"id"`
			Status        string `json:"status"`
			PaymentStatus string `json:"payment_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, orderID, resp.Data[0].ID)
	assert.Equal(t, models.OrderStatusCompleted, resp.Data[0].Status)

	// A different device with no table sees nothing.
	w = doJSON(r, http.MethodGet, "/orders", nil, map[string]string{"X-Device-ID": "device_stranger"})
	require.Equal(t, http.StatusOK, w.Code)
	var other struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &other))
	assert.Empty(t, other.Data)
}

// TestLiveFeedIntegration connects a customer websocket through the full
// router stack and watches the snapshot update when an order lands.
func TestLiveFeedIntegration(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	header := http.Header{"X-Device-ID": []string{"device_feed"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	// Initial snapshot: no orders yet.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Event string            `json:"event"`
		Data  []json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "orders_snapshot", msg.Event)
	assert.Empty(t, msg.Data)

	// Submit an order from the same device over plain HTTP.
	var dish models.Menu
	require.NoError(t, db.Where("name = ?", "Dal Makhni").First(&dish).Error)

	headers := map[string]string{"X-Device-ID": "device_feed"}
	w := doJSON(r, http.MethodPost, "/cart/lines", map[string]interface{}{
		"menu_id":  dish.ID,
		"quantity": 1,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, "/orders", map[string]interface{}{
		"table_number": "7",
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)

	// The commit pushes a fresh snapshot containing the new order.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "orders_snapshot", msg.Event)
	require.Len(t, msg.Data, 1)
}
