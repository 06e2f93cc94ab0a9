package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	orderdomain "github.com/smallbiznis/orderdesk/internal/order/domain"
)

type orderRequest struct {
	Name         string   `json:"name"`
	LocationType string   `json:"location_type"`
	LocationName string   `json:"location_name"`
	VillageID    string   `json:"village_id"`
	CityID       string   `json:"city_id"`
	CityName     string   `json:"city_name"`
	DistrictID   string   `json:"district_id"`
	DistrictName string   `json:"district_name"`
	FinalPrice   *float64 `json:"final_price"`
	Deposit      *float64 `json:"deposit"`
	IsCompleted  bool     `json:"is_completed"`
	OrderedAt    string   `json:"ordered_at"`
	CompletedAt  string   `json:"completed_at"`
	Description  string   `json:"description"`
}

// orderResponse mirrors the row with reference ids rendered as strings,
// since snowflake ids overflow JSON numbers in browser clients.
type orderResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LocationType *string   `json:"location_type"`
	LocationName *string   `json:"location_name"`
	District     *string   `json:"district"`
	CityID       *string   `json:"city_id"`
	DistrictID   *string   `json:"district_id"`
	CityName     *string   `json:"city_name"`
	DistrictName *string   `json:"district_name"`
	FinalPrice   *float64  `json:"final_price"`
	Deposit      *float64  `json:"deposit"`
	IsCompleted  bool      `json:"is_completed"`
	OrderedAt    *string   `json:"ordered_at"`
	CompletedAt  *string   `json:"completed_at"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type orderChangeResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Field     string    `json:"field"`
	OldValue  *string   `json:"old_value"`
	NewValue  *string   `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	input, err := toOrderInput(req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	id, err := s.orderSvc.Create(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id.String()}})
}

func (s *Server) UpdateOrder(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	input, err := toOrderInput(req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.orderSvc.Update(c.Request.Context(), id, input); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id.String()}})
}

func (s *Server) DeleteOrder(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.orderSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id.String()}})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	order, err := s.orderSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(*order)})
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Filter       string `form:"filter"`
		Year         string `form:"year"`
		Month        string `form:"month"`
		Comparison   string `form:"comparison"`
		Price        string `form:"price"`
		LocationType string `form:"location_type"`
		LocationName string `form:"location_name"`
		District     string `form:"district"`
		Name         string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter, err := toListFilter(query.Filter, query.Year, query.Month, query.Comparison, query.Price, query.LocationType, query.LocationName, query.District, query.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orders, err := s.orderSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOrderChanges(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	changes, err := s.orderSvc.History(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]orderChangeResponse, 0, len(changes))
	for _, change := range changes {
		resp = append(resp, orderChangeResponse{
			ID:        change.ID.String(),
			OrderID:   change.OrderID.String(),
			Field:     change.Field,
			OldValue:  change.OldValue,
			NewValue:  change.NewValue,
			ChangedAt: change.ChangedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCompletionOptions(c *gin.Context) {
	options, err := s.orderSvc.CompletionOptions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}

func toOrderInput(req orderRequest) (orderdomain.OrderInput, error) {
	villageID, err := parseOptionalID(req.VillageID, "village_id")
	if err != nil {
		return orderdomain.OrderInput{}, err
	}
	cityID, err := parseOptionalID(req.CityID, "city_id")
	if err != nil {
		return orderdomain.OrderInput{}, err
	}
	districtID, err := parseOptionalID(req.DistrictID, "district_id")
	if err != nil {
		return orderdomain.OrderInput{}, err
	}

	return orderdomain.OrderInput{
		Name:         req.Name,
		LocationType: strings.TrimSpace(req.LocationType),
		LocationName: req.LocationName,
		VillageID:    villageID,
		CityID:       cityID,
		CityName:     req.CityName,
		DistrictID:   districtID,
		DistrictName: req.DistrictName,
		FinalPrice:   req.FinalPrice,
		Deposit:      req.Deposit,
		IsCompleted:  req.IsCompleted,
		OrderedAt:    req.OrderedAt,
		CompletedAt:  req.CompletedAt,
		Description:  req.Description,
	}, nil
}

func toListFilter(filterName, year, month, comparison, price, locationType, locationName, district, name string) (orderdomain.ListFilter, error) {
	filterName = strings.TrimSpace(filterName)
	if filterName == "" {
		filterName = string(orderdomain.FilterAll)
	}

	filter := orderdomain.ListFilter{Type: orderdomain.FilterType(filterName)}
	switch filter.Type {
	case orderdomain.FilterAll,
		orderdomain.FilterYear,
		orderdomain.FilterYearMonth,
		orderdomain.FilterPrice,
		orderdomain.FilterLocation,
		orderdomain.FilterName:
	default:
		return orderdomain.ListFilter{}, newValidationError("filter", "invalid_filter", "invalid filter")
	}

	filter.Year = year
	filter.Month = month
	filter.PriceComparison = strings.TrimSpace(comparison)
	filter.LocationType = locationType
	filter.LocationName = locationName
	filter.District = district
	filter.Name = name

	if price = strings.TrimSpace(price); price != "" {
		value, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return orderdomain.ListFilter{}, newValidationError("price", "invalid_price", "invalid price")
		}
		filter.PriceValue = &value
	}

	return filter, nil
}

func toOrderResponse(order orderdomain.Order) orderResponse {
	return orderResponse{
		ID:           order.ID.String(),
		Name:         order.Name,
		LocationType: order.LocationType,
		LocationName: order.LocationName,
		District:     order.District,
		CityID:       idString(order.CityID),
		DistrictID:   idString(order.DistrictID),
		CityName:     order.CityName,
		DistrictName: order.DistrictName,
		FinalPrice:   order.FinalPrice,
		Deposit:      order.Deposit,
		IsCompleted:  order.IsCompleted,
		OrderedAt:    order.OrderedAt,
		CompletedAt:  order.CompletedAt,
		Description:  order.Description,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func parsePathID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}

func parseOptionalID(raw, field string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, newValidationError(field, "invalid_"+field, "invalid "+field)
	}
	return id, nil
}

func idString(id *snowflake.ID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}
