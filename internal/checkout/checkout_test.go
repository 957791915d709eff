package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionstore/fashion-store-backend/internal/inventory"
	"github.com/fashionstore/fashion-store-backend/internal/notification"
	"github.com/fashionstore/fashion-store-backend/internal/order"
	"github.com/fashionstore/fashion-store-backend/internal/ordernumber"
)

type fixture struct {
	svc       *Service
	orders    *order.Service
	orderRepo *order.InMemoryRepository
	stockRepo *inventory.InMemoryRepository
	stock     *inventory.Service
}

func newFixture() *fixture {
	sink := notification.NewSink(nil)
	orderRepo := order.NewInMemoryRepository()
	orders := order.NewService(orderRepo, sink)
	stockRepo := inventory.NewInMemoryRepository()
	stock := inventory.NewService(stockRepo)
	numbers := ordernumber.NewGenerator(ordernumber.NewInMemoryRepository())
	return &fixture{
		svc:       NewService(orders, stock, numbers, sink),
		orders:    orders,
		orderRepo: orderRepo,
		stockRepo: stockRepo,
		stock:     stock,
	}
}

func codRequest() Request {
	return Request{
		Items: []ItemInput{{ProductID: "p1", Name: "Oxford Shirt", Price: 500, Size: "M", Quantity: 2, Image: "/img/shirt.jpg"}},
		ShippingAddress: order.ShippingAddress{
			Name: "Asha", Email: "asha@example.com", Phone: "9999999999",
			AddressLine1: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001",
		},
		Subtotal:       1000,
		ShippingCharge: 0,
		Total:          1000,
		PaymentMethod:  order.PaymentMethodCOD,
	}
}

func (f *fixture) stockOf(t *testing.T, productID, size string) int {
	t.Helper()
	levels, err := f.stock.ListStock()
	require.NoError(t, err)
	for _, l := range levels {
		if l.ProductID == productID && l.Size == size {
			return l.StockQuantity
		}
	}
	t.Fatalf("variant %s/%s not found", productID, size)
	return 0
}

func TestPlaceOrder_CODHappyPath(t *testing.T) {
	f := newFixture()
	f.stockRepo.SetStock("p1", "M", 10)

	created, err := f.svc.PlaceOrder(codRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-\d{8}-\d{5}$`, created.OrderNumber)
	assert.Equal(t, 1000.0, created.Total)
	assert.Equal(t, order.PaymentMethodCOD, created.PaymentMethod)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, order.PaymentPending, created.PaymentStatus)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Oxford Shirt", created.Items[0].ProductName)

	assert.Equal(t, 8, f.stockOf(t, "p1", "M"), "stock should drop by the purchased quantity")
}

func TestPlaceOrder_OnlineStaysPendingForCallback(t *testing.T) {
	f := newFixture()
	f.stockRepo.SetStock("p1", "M", 10)

	req := codRequest()
	req.PaymentMethod = order.PaymentMethodOnline
	created, err := f.svc.PlaceOrder(req)
	require.NoError(t, err)

	assert.Equal(t, order.PaymentPending, created.PaymentStatus)
	assert.Equal(t, order.StatusPending, created.Status)

	// the pending order is queryable and resumable by number
	got, err := f.orders.GetByNumber(created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture()
	req := codRequest()
	req.Items = nil
	_, err := f.svc.PlaceOrder(req)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_IncompleteAddress(t *testing.T) {
	f := newFixture()
	req := codRequest()
	req.ShippingAddress.Pincode = ""
	_, err := f.svc.PlaceOrder(req)
	require.Error(t, err)
}

func TestPlaceOrder_ShortStockClampsToZero(t *testing.T) {
	f := newFixture()
	f.stockRepo.SetStock("p1", "M", 1)

	// requesting 2 with 1 on hand: order still goes through, stock floors at 0
	created, err := f.svc.PlaceOrder(codRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, f.stockOf(t, "p1", "M"))
}

func TestPlaceOrder_UntrackedVariantUnwindsOrder(t *testing.T) {
	f := newFixture()
	f.stockRepo.SetStock("p1", "M", 10)
	// p2/L has no variant row

	req := codRequest()
	req.Items = append(req.Items, ItemInput{ProductID: "p2", Name: "Linen Blazer", Price: 2000, Size: "L", Quantity: 1, Image: "/img/blazer.jpg"})
	req.Subtotal = 3000
	req.Total = 3000

	_, err := f.svc.PlaceOrder(req)
	assert.ErrorIs(t, err, ErrItemUnavailable)

	// first item's reservation was returned
	assert.Equal(t, 10, f.stockOf(t, "p1", "M"))

	// no orphan order remains
	orders, err := f.orders.List("", 0)
	require.NoError(t, err)
	assert.Empty(t, orders, "unwound order must not persist")
}

func TestPlaceOrder_OrderNumbersAreUniquePerDay(t *testing.T) {
	f := newFixture()
	f.stockRepo.SetStock("p1", "M", 100)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		created, err := f.svc.PlaceOrder(codRequest())
		require.NoError(t, err)
		require.False(t, seen[created.OrderNumber], "duplicate order number %s", created.OrderNumber)
		seen[created.OrderNumber] = true
	}
}

func TestPlaceOrder_TotalMismatchRejected(t *testing.T) {
	f := newFixture()
	f.stockRepo.SetStock("p1", "M", 10)

	req := codRequest()
	req.Total = 1100 // shippingCharge still 0
	_, err := f.svc.PlaceOrder(req)
	require.Error(t, err)

	orders, _ := f.orders.List("", 0)
	assert.Empty(t, orders)
}
