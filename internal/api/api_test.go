package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodshare/foodshare/internal/dashboard"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/store/memstore"
)

func newTestServer(t *testing.T) (*memstore.Store, http.Handler) {
	t.Helper()
	st := memstore.New()
	return st, NewServer(st, nil, Options{}).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func seedFood(t *testing.T, st *memstore.Store, item store.FoodItem) store.FoodItem {
	t.Helper()
	if item.FoodStatus == "" {
		item.FoodStatus = store.FoodAvailable
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := st.CreateFood(context.Background(), &item); err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	return item
}

func TestRoot(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "Server is running..." {
		t.Errorf("unexpected body %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodOptions, "/foods", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected origin *, got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Error("expected PATCH in allowed methods")
	}
}

func TestListFoods(t *testing.T) {
	st, h := newTestServer(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		seedFood(t, st, store.FoodItem{
			FoodName:       fmt.Sprintf("Rice %d", i),
			PickupLocation: "Dhanmondi",
			ExpireDate:     base.Add(time.Duration(i) * time.Hour),
		})
	}
	seedFood(t, st, store.FoodItem{FoodName: "Rice donated", FoodStatus: store.FoodDonated, ExpireDate: base})

	t.Run("default page", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/foods", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp listFoodsResponse
		decode(t, rec, &resp)

		if resp.Total != 10 {
			t.Errorf("expected total 10, got %d", resp.Total)
		}
		if len(resp.Foods) != 8 {
			t.Errorf("expected 8 foods on page 1, got %d", len(resp.Foods))
		}
		if resp.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", resp.TotalPages)
		}
		for i := 1; i < len(resp.Foods); i++ {
			if resp.Foods[i].ExpireDate.Before(resp.Foods[i-1].ExpireDate) {
				t.Fatalf("foods not sorted by expire_date ascending at %d", i)
			}
		}
	})

	t.Run("second page", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/foods?page=2", nil)
		var resp listFoodsResponse
		decode(t, rec, &resp)
		if len(resp.Foods) != 2 {
			t.Errorf("expected 2 foods on page 2, got %d", len(resp.Foods))
		}
		if resp.Page != 2 {
			t.Errorf("expected page 2, got %d", resp.Page)
		}
	})

	t.Run("search", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/foods?search=RICE%203", nil)
		var resp listFoodsResponse
		decode(t, rec, &resp)
		if resp.Total != 1 || resp.Foods[0].FoodName != "Rice 3" {
			t.Errorf("unexpected search result: %+v", resp)
		}
	})

	for _, bad := range []string{"page=0", "limit=abc", "sort=password", "order=sideways", "page=9223372036854775807&limit=2"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/foods?"+bad, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}

	t.Run("total-foods is unpaginated", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/total-foods", nil)
		var foods []store.FoodItem
		decode(t, rec, &foods)
		if len(foods) != 10 {
			t.Errorf("expected 10 foods, got %d", len(foods))
		}
	})
}

func TestHighestFoods(t *testing.T) {
	st, h := newTestServer(t)
	for _, q := range []int{3, 10, 7, 1, 5, 9, 2, 8, 4, 6} {
		seedFood(t, st, store.FoodItem{FoodName: fmt.Sprintf("item-%d", q), FoodQuantity: q})
	}

	rec := do(t, h, http.MethodGet, "/highest-foods", nil)
	var foods []store.FoodItem
	decode(t, rec, &foods)

	want := []int{10, 9, 8, 7, 6, 5}
	if len(foods) != len(want) {
		t.Fatalf("expected %d foods, got %d", len(want), len(foods))
	}
	for i, f := range foods {
		if f.FoodQuantity != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], f.FoodQuantity)
		}
	}
}

func TestFoodCRUD(t *testing.T) {
	st, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/foods", map[string]interface{}{
		"food_name":       "Lentil soup",
		"food_quantity":   4,
		"pickup_location": "Gulshan",
		"donators_email":  "donor@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created store.FoodItem
	decode(t, rec, &created)
	if created.ID.IsZero() {
		t.Fatal("expected an id")
	}
	if created.FoodStatus != store.FoodAvailable {
		t.Errorf("expected default status Available, got %q", created.FoodStatus)
	}
	id := created.ID.Hex()

	t.Run("get", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/foods/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("get invalid id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/foods/not-an-id", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/foods/"+primitive.NewObjectID().Hex(), nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("create requires name", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/foods", map[string]interface{}{"donators_email": "a@b.c"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create rejects unknown status", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/foods", map[string]interface{}{
			"food_name": "x", "donators_email": "a@b.c", "food_status": "Eaten",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/foods/"+id, map[string]interface{}{"food_quantity": 9})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var updated store.FoodItem
		decode(t, rec, &updated)
		if updated.FoodQuantity != 9 || updated.FoodName != "Lentil soup" {
			t.Errorf("unexpected update result: %+v", updated)
		}
	})

	t.Run("empty update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/foods/"+id, map[string]interface{}{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("my foods", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/my-foods?email=donor@example.com", nil)
		var foods []store.FoodItem
		decode(t, rec, &foods)
		if len(foods) != 1 {
			t.Errorf("expected 1 food, got %d", len(foods))
		}

		rec = do(t, h, http.MethodGet, "/my-foods", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without email, got %d", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/foods/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rec = do(t, h, http.MethodDelete, "/foods/"+id, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 on second delete, got %d", rec.Code)
		}
	})

	t.Run("secondary collection", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/food", map[string]interface{}{
			"food_name": "Bread", "donators_email": "donor@example.com",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if n := len(st.SecondaryFoods()); n != 1 {
			t.Errorf("expected 1 secondary food, got %d", n)
		}
	})
}

func TestFoodRequestLifecycle(t *testing.T) {
	st, h := newTestServer(t)
	food := seedFood(t, st, store.FoodItem{FoodName: "Biryani", FoodQuantity: 3, DonatorEmail: "donor@example.com"})

	create := func(t *testing.T, email string) store.FoodRequest {
		t.Helper()
		rec := do(t, h, http.MethodPost, "/food-request", map[string]interface{}{
			"food_id":         food.ID.Hex(),
			"food_name":       food.FoodName,
			"requester_email": email,
			"status":          "accepted",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var req store.FoodRequest
		decode(t, rec, &req)
		return req
	}

	first := create(t, "ana@example.com")
	second := create(t, "bo@example.com")

	if first.Status != store.RequestPending {
		t.Errorf("new requests must be pending, got %q", first.Status)
	}

	t.Run("create validates food id", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/food-request", map[string]interface{}{
			"food_id": "nope", "requester_email": "x@example.com",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("by food", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/food-request/"+food.ID.Hex(), nil)
		var reqs []store.FoodRequest
		decode(t, rec, &reqs)
		if len(reqs) != 2 {
			t.Errorf("expected 2 requests, got %d", len(reqs))
		}
	})

	t.Run("by requester", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/my-request?email=ana@example.com", nil)
		var reqs []store.FoodRequest
		decode(t, rec, &reqs)
		if len(reqs) != 1 || reqs[0].ID != first.ID {
			t.Errorf("unexpected requests: %+v", reqs)
		}
	})

	t.Run("search", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/request-food?q=EXAMPLE.COM", nil)
		var reqs []store.FoodRequest
		decode(t, rec, &reqs)
		if len(reqs) != 2 {
			t.Errorf("expected 2 matches, got %d", len(reqs))
		}
	})

	t.Run("reject", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/food-request/reject/"+second.ID.Hex(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var req store.FoodRequest
		decode(t, rec, &req)
		if req.Status != store.RequestRejected {
			t.Errorf("expected rejected, got %q", req.Status)
		}
	})

	t.Run("accept marks food donated", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/food-request/accept/"+first.ID.Hex(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var req store.FoodRequest
		decode(t, rec, &req)
		if req.Status != store.RequestAccepted {
			t.Errorf("expected accepted, got %q", req.Status)
		}

		got, err := st.GetFood(context.Background(), food.ID.Hex())
		if err != nil {
			t.Fatalf("GetFood: %v", err)
		}
		if got.FoodStatus != store.FoodDonated {
			t.Errorf("expected food Donated, got %q", got.FoodStatus)
		}
	})

	t.Run("accept with missing food", func(t *testing.T) {
		orphan := &store.FoodRequest{
			FoodID:         primitive.NewObjectID().Hex(),
			RequesterEmail: "x@example.com",
			Status:         store.RequestPending,
		}
		if err := st.CreateRequest(context.Background(), orphan); err != nil {
			t.Fatalf("CreateRequest: %v", err)
		}

		rec := do(t, h, http.MethodPatch, "/food-request/accept/"+orphan.ID.Hex(), nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		reqs, _ := st.RequestsByRequester(context.Background(), "x@example.com")
		if len(reqs) != 1 || reqs[0].Status != store.RequestPending {
			t.Errorf("orphan request should stay pending: %+v", reqs)
		}
	})

	t.Run("generic status update", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/food-request/"+second.ID.Hex(), map[string]string{"status": "pending"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = do(t, h, http.MethodPatch, "/food-request/"+second.ID.Hex(), map[string]string{"status": "lost"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown status, got %d", rec.Code)
		}
	})
}

func TestFoodRequestUppercaseFoodID(t *testing.T) {
	st, h := newTestServer(t)
	food := seedFood(t, st, store.FoodItem{FoodName: "Halim", FoodQuantity: 2, DonatorEmail: "donor@example.com"})
	canonical := food.ID.Hex()

	rec := do(t, h, http.MethodPost, "/food-request", map[string]interface{}{
		"food_id":         strings.ToUpper(canonical),
		"requester_email": "ana@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var req store.FoodRequest
	decode(t, rec, &req)
	if req.FoodID != canonical {
		t.Errorf("expected stored food_id %s, got %s", canonical, req.FoodID)
	}

	for _, id := range []string{canonical, strings.ToUpper(canonical)} {
		rec = do(t, h, http.MethodGet, "/food-request/"+id, nil)
		var reqs []store.FoodRequest
		decode(t, rec, &reqs)
		if len(reqs) != 1 {
			t.Errorf("GET /food-request/%s: expected 1 request, got %d", id, len(reqs))
		}
	}

	rec = do(t, h, http.MethodPatch, "/food-request/accept/"+req.ID.Hex(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got, err := st.GetFood(context.Background(), canonical)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if got.FoodStatus != store.FoodDonated {
		t.Errorf("expected food Donated, got %q", got.FoodStatus)
	}
}

func TestUsers(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/users", map[string]string{
		"name": "Rina", "email": "rina@example.com", "role": "admin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var u store.User
	decode(t, rec, &u)
	if u.Role != store.RoleUser {
		t.Errorf("client-supplied role must be ignored, got %q", u.Role)
	}

	t.Run("duplicate", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/users", map[string]string{"email": "rina@example.com"})
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var body map[string]string
		decode(t, rec, &body)
		if body["message"] != "user already exists" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("role of unknown user", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/users/ghost@example.com/role", nil)
		var body map[string]string
		decode(t, rec, &body)
		if body["role"] != store.RoleUser {
			t.Errorf("expected user role, got %q", body["role"])
		}
	})

	t.Run("promote", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/users/role/"+u.ID.Hex(), map[string]string{"role": "admin"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = do(t, h, http.MethodGet, "/users/rina@example.com/role", nil)
		var body map[string]string
		decode(t, rec, &body)
		if body["role"] != store.RoleAdmin {
			t.Errorf("expected admin, got %q", body["role"])
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/users/role/"+u.ID.Hex(), map[string]string{"role": "root"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/users", nil)
		var users []store.User
		decode(t, rec, &users)
		if len(users) != 1 {
			t.Errorf("expected 1 user, got %d", len(users))
		}
	})
}

func TestUserDashboard(t *testing.T) {
	st, h := newTestServer(t)
	email := "donor@example.com"
	seedFood(t, st, store.FoodItem{FoodName: "a", DonatorEmail: email})
	seedFood(t, st, store.FoodItem{FoodName: "b", DonatorEmail: email, FoodStatus: store.FoodDonated})
	seedFood(t, st, store.FoodItem{FoodName: "c", DonatorEmail: "other@example.com"})

	rec := do(t, h, http.MethodGet, "/user-dashboard/"+email, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var sum dashboard.Summary
	decode(t, rec, &sum)

	if sum.TotalAdded != 2 || sum.Available != 1 || sum.Donated != 1 {
		t.Errorf("unexpected counts: %+v", sum)
	}
	if len(sum.RecentFoods) != 2 {
		t.Errorf("expected 2 recent foods, got %d", len(sum.RecentFoods))
	}
}

func TestAuditDisabled(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/audit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty list, got %q", got)
	}
}
