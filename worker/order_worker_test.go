package worker

import (
	"encoding/json"
	"testing"

	"learnhub-storefront-api/models"
	"learnhub-storefront-api/queue"
	"learnhub-storefront-api/services/notification"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(level notification.Level, message string) {
	n.messages = append(n.messages, message)
}

func orderJob(t *testing.T, data map[string]interface{}) *queue.Job {
	t.Helper()
	return &queue.Job{
		ID:   "1",
		Type: queue.JobTypeProcessOrder,
		Data: data,
	}
}

func validOrderData(t *testing.T) map[string]interface{} {
	t.Helper()
	items, err := json.Marshal([]models.CartLine{
		{ID: "line-1", ProductID: 7, Name: "프론트엔드 스타터 번들", Price: 10000, Quantity: 2, Stock: 5},
	})
	if err != nil {
		t.Fatalf("marshal items: %v", err)
	}
	// round-trip through JSON the way the queue delivers payloads, so
	// numbers arrive as float64
	raw, err := json.Marshal(map[string]interface{}{
		"order_id":     "b2f1c9e0-0000-0000-0000-000000000000",
		"reference":    "LH-3F8K2Q1D",
		"username":     "hana",
		"items_json":   string(items),
		"total_amount": 20000,
	})
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return data
}

func TestProcessOrder(t *testing.T) {
	t.Run("valid payload without a database is acknowledged", func(t *testing.T) {
		w := NewWorker(nil, nil, nil, &recordingNotifier{})
		if err := w.processOrder(orderJob(t, validOrderData(t))); err != nil {
			t.Fatalf("processOrder returned %v", err)
		}
	})

	t.Run("missing order_id is rejected", func(t *testing.T) {
		data := validOrderData(t)
		delete(data, "order_id")

		w := NewWorker(nil, nil, nil, nil)
		if err := w.processOrder(orderJob(t, data)); err == nil {
			t.Fatal("expected an error for a payload without order_id")
		}
	})

	t.Run("non-string order_id is rejected", func(t *testing.T) {
		data := validOrderData(t)
		data["order_id"] = 12345.0

		w := NewWorker(nil, nil, nil, nil)
		if err := w.processOrder(orderJob(t, data)); err == nil {
			t.Fatal("expected an error for a non-string order_id")
		}
	})

	t.Run("missing items_json is rejected", func(t *testing.T) {
		data := validOrderData(t)
		delete(data, "items_json")

		w := NewWorker(nil, nil, nil, nil)
		if err := w.processOrder(orderJob(t, data)); err == nil {
			t.Fatal("expected an error for a payload without items_json")
		}
	})

	t.Run("corrupt items_json is rejected", func(t *testing.T) {
		data := validOrderData(t)
		data["items_json"] = "{not json"

		w := NewWorker(nil, nil, nil, nil)
		if err := w.processOrder(orderJob(t, data)); err == nil {
			t.Fatal("expected an error for corrupt items_json")
		}
	})

	t.Run("non-numeric total_amount is tolerated", func(t *testing.T) {
		// a hand-edited or legacy payload may carry the amount as a string;
		// the order still lands, with a zero amount
		data := validOrderData(t)
		data["total_amount"] = "20000"

		w := NewWorker(nil, nil, nil, nil)
		if err := w.processOrder(orderJob(t, data)); err != nil {
			t.Fatalf("processOrder returned %v", err)
		}
	})
}

func TestProcessJob(t *testing.T) {
	t.Run("unknown job type is an error", func(t *testing.T) {
		w := NewWorker(nil, nil, nil, nil)
		err := w.processJob(&queue.Job{ID: "1", Type: "mystery", Data: map[string]interface{}{}})
		if err == nil {
			t.Fatal("expected an error for an unknown job type")
		}
	})

	t.Run("catalog refresh requires a database", func(t *testing.T) {
		w := NewWorker(nil, nil, nil, nil)
		err := w.processJob(&queue.Job{ID: "2", Type: queue.JobTypeRefreshCatalog, Data: map[string]interface{}{}})
		if err == nil {
			t.Fatal("expected an error when no database is configured")
		}
	})
}
