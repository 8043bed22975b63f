package service

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/payment/ecpay"
	"github.com/dawit-coffee/storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	testHashKey = "5294y06JbISpM5x9"
	testHashIV  = "v77hoKGq4kWxNNIS"
)

type serviceFixture struct {
	db          *gorm.DB
	orderRepo   *repository.GormOrderRepository
	productRepo *repository.GormProductRepository
	carts       *cache.MemoryCartStore
	publisher   *events.RecordingPublisher
	ecpay       *ecpay.Client
	cart        *CartService
	checkout    *CheckoutService
	payment     *PaymentService
	orders      *OrderService
}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 单连接使事务在 sqlite 上串行执行，多连接并发扣减见 postgres_integration_test.go
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	client, err := ecpay.NewClient(ecpay.Config{
		MerchantID:     "2000132",
		HashKey:        testHashKey,
		HashIV:         testHashIV,
		TradeNoPrefix:  "TEST",
		TradeDesc:      "CoffeeOrder",
		ReturnURL:      "http://localhost:3000/payment/ecpay/notify",
		OrderResultURL: "http://localhost:3000/payment/result",
	})
	if err != nil {
		t.Fatalf("create ecpay client failed: %v", err)
	}

	f := &serviceFixture{
		db:          db,
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewProductRepository(db),
		carts:       cache.NewMemoryCartStore(time.Hour),
		publisher:   &events.RecordingPublisher{},
		ecpay:       client,
	}
	shipping := defaultShippingPolicy()
	f.cart = NewCartService(f.carts, f.productRepo, shipping)
	f.checkout = NewCheckoutService(f.orderRepo, f.productRepo, f.carts, nil, f.publisher, shipping, 30)
	f.payment = NewPaymentService(f.orderRepo, f.productRepo, f.carts, client, f.publisher, PaymentOptions{VerifyCallback: true})
	f.orders = NewOrderService(f.orderRepo, f.productRepo, f.publisher)
	return f
}

func (f *serviceFixture) seedProduct(t *testing.T, id string, price int64, stock int) {
	t.Helper()
	product := &models.Product{ID: id, Name: "咖啡 " + id, Price: price, Stock: stock}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
}

func (f *serviceFixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	var product models.Product
	if err := f.db.Where("id = ?", id).First(&product).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product.Stock
}

func (f *serviceFixture) orderOf(t *testing.T, id string) *models.Order {
	t.Helper()
	var order models.Order
	if err := f.db.Where("id = ?", id).First(&order).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return &order
}

// placeOrder 加入购物车并结账，返回订单编号
func (f *serviceFixture) placeOrder(t *testing.T, sessionID, productID string, quantity int) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.cart.Add(ctx, sessionID, productID, quantity); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}
	result, err := f.checkout.Checkout(ctx, validCheckoutInput(sessionID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return result.OrderID
}

// initiate 发起支付并返回交易编号
func (f *serviceFixture) initiate(t *testing.T, sessionID, orderID string) string {
	t.Helper()
	form, err := f.payment.Initiate(context.Background(), sessionID, orderID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	return form.Value("MerchantTradeNo")
}

// signedCallback 构造带检查码的回调字段
func (f *serviceFixture) signedCallback(tradeNo, rtnCode string, amount int64) map[string]string {
	fields := map[string]string{
		"MerchantID":      "2000132",
		"MerchantTradeNo": tradeNo,
		"RtnCode":         rtnCode,
		"RtnMsg":          "交易成功",
		"TradeNo":         "2401011200000001",
		"TradeAmt":        strconv.FormatInt(amount, 10),
		"PaymentType":     "Credit_CreditCard",
		"PaymentDate":     "2024/01/01 12:00:00",
		"SimulatePaid":    "0",
	}
	fields["CheckMacValue"] = f.ecpay.Sign(fields)
	return fields
}

func validCheckoutInput(sessionID string) CheckoutInput {
	return CheckoutInput{
		SessionID: sessionID,
		Name:      "王小明",
		Phone:     "0912345678",
		Address:   "台北市信义区市府路 1 号",
		Notes:     "请按门铃",
	}
}

// defaultShippingPolicy 运费 60，满 500 免运
func defaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{Fee: 60, FreeShippingThreshold: 500}
}
