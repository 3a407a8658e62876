package routing

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"supplier-routing-service/internal/engine"
	"supplier-routing-service/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	eng, err := engine.NewEngine(engine.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return NewService(eng)
}

func testCatalog() []models.Supplier {
	rate := decimal.NewFromFloat(7.05)

	return []models.Supplier{
		{
			Name:     "Union",
			IsActive: true,
			Services: []models.Service{
				{
					ServiceType: "alipay",
					AmountLimits: []models.AmountBracket{
						{Limit: ">500", Rate: &rate},
					},
					ServiceCharges: []models.ConditionalCharge{
						{Condition: "<10000", Charge: "50"},
					},
				},
			},
		},
	}
}

func testOrder(amount float64) *models.Order {
	return models.NewOrder("alipay", decimal.NewFromFloat(amount), nil)
}

func TestRouteBatch(t *testing.T) {
	service := newTestService(t)

	orders := []*models.Order{
		testOrder(600), // matches Union
		testOrder(100), // below bracket, no match
		models.NewOrder("alipay", decimal.Zero, nil),
		testOrder(700), // matches Union
	}

	result, err := service.RouteBatch(context.Background(), &BatchRequest{
		Orders:  orders,
		Catalog: testCatalog(),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(result.Results))
	}

	summary := result.Summary
	if summary.Matched != 2 || summary.Unmatched != 1 || summary.InvalidOrders != 1 {
		t.Errorf("Unexpected summary: %s", summary.String())
	}

	// Results stay in input order
	if result.Results[0].Match == nil || !result.Results[0].Match.Matched {
		t.Error("Expected first order to match")
	}
	if result.Results[1].Match == nil || result.Results[1].Match.Matched {
		t.Error("Expected second order to have the no-supplier result")
	}
	if result.Results[2].Err == nil {
		t.Error("Expected third order to carry an error")
	}
	if result.Results[3].Index != 3 {
		t.Errorf("Expected index 3, got %d", result.Results[3].Index)
	}
}

func TestRouteBatch_EmptyRequest(t *testing.T) {
	service := newTestService(t)

	if _, err := service.RouteBatch(context.Background(), nil); err == nil {
		t.Error("Expected error for nil request")
	}

	if _, err := service.RouteBatch(context.Background(), &BatchRequest{}); err == nil {
		t.Error("Expected error for empty order list")
	}
}

func TestRouteBatch_InvalidOrderDoesNotAbort(t *testing.T) {
	service := newTestService(t)

	orders := []*models.Order{
		models.NewOrder("", decimal.NewFromFloat(100), nil),
		testOrder(600),
	}

	result, err := service.RouteBatch(context.Background(), &BatchRequest{
		Orders:  orders,
		Catalog: testCatalog(),
	})
	if err != nil {
		t.Fatalf("Batch must survive invalid orders: %v", err)
	}

	if result.Results[0].Err == nil {
		t.Error("Expected invalid order to carry its error")
	}
	if result.Results[1].Match == nil || !result.Results[1].Match.Matched {
		t.Error("Expected valid order to still be routed")
	}
}

func TestRouteBatch_Concurrency(t *testing.T) {
	service := newTestService(t)

	var orders []*models.Order
	for i := 0; i < 50; i++ {
		orders = append(orders, testOrder(600))
	}

	result, err := service.RouteBatch(context.Background(), &BatchRequest{
		Orders:      orders,
		Catalog:     testCatalog(),
		Concurrency: 4,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Summary.Matched != 50 {
		t.Errorf("Expected all 50 orders matched, got %d", result.Summary.Matched)
	}

	for i := range result.Results {
		if result.Results[i].Index != i {
			t.Fatalf("Result %d out of order: index %d", i, result.Results[i].Index)
		}
	}
}

func TestRouteBatch_ProgressCallbacks(t *testing.T) {
	service := newTestService(t)

	var (
		mu    sync.Mutex
		calls int
		last  int
	)
	service.AddProgressCallback(func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if completed > last {
			last = completed
		}
		if total != 3 {
			t.Errorf("Expected total 3, got %d", total)
		}
	})

	orders := []*models.Order{testOrder(600), testOrder(700), testOrder(800)}

	if _, err := service.RouteBatch(context.Background(), &BatchRequest{
		Orders:  orders,
		Catalog: testCatalog(),
	}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if calls != 3 {
		t.Errorf("Expected 3 progress calls, got %d", calls)
	}
	if last != 3 {
		t.Errorf("Expected final completed count 3, got %d", last)
	}
}

func TestRouteBatch_Cancelled(t *testing.T) {
	service := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var orders []*models.Order
	for i := 0; i < 100; i++ {
		orders = append(orders, testOrder(600))
	}

	if _, err := service.RouteBatch(ctx, &BatchRequest{
		Orders:  orders,
		Catalog: testCatalog(),
	}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
