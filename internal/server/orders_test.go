package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	orderdomain "github.com/smallbiznis/orderdesk/internal/order/domain"
	orderrepository "github.com/smallbiznis/orderdesk/internal/order/repository"
	orderservice "github.com/smallbiznis/orderdesk/internal/order/service"
	refdomain "github.com/smallbiznis/orderdesk/internal/reference/domain"
	refrepository "github.com/smallbiznis/orderdesk/internal/reference/repository"
	refservice "github.com/smallbiznis/orderdesk/internal/reference/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&refdomain.City{},
		&refdomain.District{},
		&refdomain.Village{},
		&refdomain.Year{},
		&orderdomain.Order{},
		&orderdomain.OrderChange{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	refRepo := refrepository.Provide()
	resolver := refservice.New(refservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  refRepo,
	})
	orderSvc := orderservice.New(orderservice.Params{
		Log:      zap.NewNop(),
		DB:       db,
		Clock:    clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		GenID:    node,
		Repo:     orderrepository.Provide(),
		RefRepo:  refRepo,
		Resolver: resolver,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:      engine,
		Cfg:      config.Config{DefaultCity: "София"},
		DB:       db,
		OrderSvc: orderSvc,
		Refrepo:  refRepo,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func createOrder(t *testing.T, s *Server, body map[string]any) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestCreateAndGetOrderHTTP(t *testing.T) {
	s := newTestServer(t)

	id := createOrder(t, s, map[string]any{
		"name":          "Иван Петров",
		"location_type": "city",
		"city_name":     "София",
		"district_name": "Лозенец",
		"final_price":   120.5,
		"ordered_at":    "2024-03-01",
	})

	rec := doJSON(t, s, http.MethodGet, "/api/orders/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data orderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.Data.ID)
	assert.Equal(t, "Иван Петров", resp.Data.Name)
	require.NotNil(t, resp.Data.LocationName)
	assert.Equal(t, "София", *resp.Data.LocationName)
	require.NotNil(t, resp.Data.CityName)
	assert.Equal(t, "София", *resp.Data.CityName)
	require.NotNil(t, resp.Data.FinalPrice)
	assert.Equal(t, 120.5, *resp.Data.FinalPrice)
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/orders", map[string]any{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_name", resp.Error.Errors[0].Code)
}

func TestGetOrderNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/orders/12345", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestListOrdersFilterValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/orders?filter=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/orders?filter=price&comparison=gt&price=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersByName(t *testing.T) {
	s := newTestServer(t)

	createOrder(t, s, map[string]any{"name": "Иван Петров"})
	createOrder(t, s, map[string]any{"name": "Мария Георгиева"})

	rec := doJSON(t, s, http.MethodGet, "/api/orders?filter=name&name=Иван", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []orderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Иван Петров", resp.Data[0].Name)
}

func TestUpdateDeleteAndHistoryHTTP(t *testing.T) {
	s := newTestServer(t)

	id := createOrder(t, s, map[string]any{"name": "Иван", "final_price": 10})

	rec := doJSON(t, s, http.MethodPut, "/api/orders/"+id, map[string]any{
		"name":        "Иван",
		"final_price": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/api/orders/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Data []orderChangeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Data, 1)
	assert.Equal(t, "final_price", history.Data[0].Field)

	rec = doJSON(t, s, http.MethodDelete, "/api/orders/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/orders/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListDistricts(t *testing.T) {
	s := newTestServer(t)

	createOrder(t, s, map[string]any{
		"name":          "Иван",
		"location_type": "city",
		"city_name":     "София",
		"district_name": "Лозенец",
	})
	createOrder(t, s, map[string]any{
		"name":          "Петър",
		"location_type": "city",
		"city_name":     "Пловдив",
		"district_name": "Тракия",
	})

	rec := doJSON(t, s, http.MethodGet, "/api/districts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []districtResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	// Scoped to one city by query parameter.
	sofiaID := resp.Data[0].CityID
	if resp.Data[0].Name != "Лозенец" {
		sofiaID = resp.Data[1].CityID
	}
	rec = doJSON(t, s, http.MethodGet, "/api/districts?city_id="+sofiaID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Лозенец", resp.Data[0].Name)
}

func TestCompletionOptionsHTTP(t *testing.T) {
	s := newTestServer(t)

	createOrder(t, s, map[string]any{"name": "Иван", "ordered_at": "2024-02-01", "completed_at": "2024-03-15"})
	createOrder(t, s, map[string]any{"name": "Мария", "ordered_at": "2023-05-10"})

	rec := doJSON(t, s, http.MethodGet, "/api/completion-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Year   string   `json:"year"`
			Months []string `json:"months"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2024", resp.Data[0].Year)
	assert.Equal(t, []string{"03"}, resp.Data[0].Months)
	assert.Equal(t, "2023", resp.Data[1].Year)
}
