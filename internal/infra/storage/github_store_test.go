package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

func testGitHubConfig(baseURL string) GitHubConfig {
	return GitHubConfig{
		BaseURL:    baseURL,
		Token:      "test-token",
		Owner:      "acme",
		Repo:       "orders-data",
		Branch:     "main",
		OrdersPath: "data/orders.csv",
		ItemsPath:  "data/order_items.csv",
	}
}

func TestGitHubStore_LoadOrders(t *testing.T) {
	csv := "order_id,shop_key,user_name,note,created_at,is_paid\n" +
		"o1,food,Alice,,2025-06-10 12:00:00,true\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/acme/orders-data/contents/data/orders.csv", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]string{
			"content": base64.StdEncoding.EncodeToString([]byte(csv)),
			"sha":     "abc123",
		})
	}))
	defer srv.Close()

	s := NewGitHubStore(testGitHubConfig(srv.URL), testLoc, testLogger())

	orders, err := s.LoadOrders(context.Background())

	assert.NoError(t, err)
	if assert.Len(t, orders, 1) {
		assert.Equal(t, "o1", orders[0].OrderID)
		assert.Equal(t, "Alice", orders[0].UserName)
		assert.True(t, orders[0].IsPaid)
	}
}

func TestGitHubStore_LoadMissingFileReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewGitHubStore(testGitHubConfig(srv.URL), testLoc, testLogger())

	orders, err := s.LoadOrders(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGitHubStore_LoadServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewGitHubStore(testGitHubConfig(srv.URL), testLoc, testLogger())

	_, err := s.LoadOrders(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGitHubStore_SaveSendsCurrentSHA(t *testing.T) {
	var gotPut putRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// 書き込み前のsha取得
			json.NewEncoder(w).Encode(map[string]string{
				"content": base64.StdEncoding.EncodeToString([]byte("order_id,shop_key,user_name,note,created_at,is_paid\n")),
				"sha":     "oldsha",
			})
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotPut))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
		}
	}))
	defer srv.Close()

	s := NewGitHubStore(testGitHubConfig(srv.URL), testLoc, testLogger())

	err := s.SaveOrders(context.Background(), []model.Order{{OrderID: "o1", ShopKey: "food", UserName: "Alice"}})

	assert.NoError(t, err)
	assert.Equal(t, "oldsha", gotPut.SHA)
	assert.Equal(t, "main", gotPut.Branch)

	decoded, err := base64.StdEncoding.DecodeString(gotPut.Content)
	assert.NoError(t, err)
	assert.Contains(t, string(decoded), "o1,food,Alice")
}

func TestGitHubStore_SaveNewFileOmitsSHA(t *testing.T) {
	var gotPut putRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotPut))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
		}
	}))
	defer srv.Close()

	s := NewGitHubStore(testGitHubConfig(srv.URL), testLoc, testLogger())

	err := s.SaveOrders(context.Background(), []model.Order{{OrderID: "o1"}})

	assert.NoError(t, err)
	assert.Empty(t, gotPut.SHA)
}

func TestGitHubStore_SaveConflictSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			w.WriteHeader(http.StatusConflict)
		}
	}))
	defer srv.Close()

	s := NewGitHubStore(testGitHubConfig(srv.URL), testLoc, testLogger())

	err := s.SaveOrders(context.Background(), []model.Order{{OrderID: "o1"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
}
