package notify

import (
	"strings"
	"testing"
)

func TestComposeDealerEmail(t *testing.T) {
	subject, body := composeDealerEmail(DealerNotificationPayload{
		LeadID:       5,
		ListingID:    10,
		BuyerName:    "Ana Torres",
		BuyerEmail:   "ana@example.com",
		BuyerPhone:   "+13055550123",
		DealerName:   "Demo Dealer Miami",
		DealerEmail:  "sales@demodealer.example.com",
		ListingLabel: "2018 Honda Pilot EX-L",
		ListingPrice: 13000,
		ListingMiles: 90000,
	})

	if subject != "New lead from CarMatch - 2018 Honda Pilot EX-L" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Demo Dealer Miami", "Ana Torres", "ana@example.com", "+13055550123", "$13000", "90000 mi"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestComposeDealerEmailDefaults(t *testing.T) {
	subject, body := composeDealerEmail(DealerNotificationPayload{
		LeadID:     5,
		ListingID:  10,
		BuyerName:  "Ana Torres",
		BuyerEmail: "ana@example.com",
	})

	if !strings.Contains(subject, "listing #10") {
		t.Errorf("subject should fall back to listing ID: %q", subject)
	}
	if !strings.Contains(body, "Not provided") || !strings.Contains(body, "No additional notes.") {
		t.Errorf("missing placeholder text:\n%s", body)
	}
}

func TestDealerNotificationTaskRoundTrip(t *testing.T) {
	want := DealerNotificationPayload{LeadID: 5, ListingID: 10, BuyerName: "Ana Torres", DealerEmail: "sales@demodealer.example.com"}

	task, err := NewDealerNotificationTask(want)
	if err != nil {
		t.Fatalf("NewDealerNotificationTask() error = %v", err)
	}
	if task.Type() != TaskDealerNotification {
		t.Errorf("task type = %q", task.Type())
	}

	got, err := ParseDealerNotificationPayload(task)
	if err != nil {
		t.Fatalf("ParseDealerNotificationPayload() error = %v", err)
	}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}
