package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	referencedomain "github.com/smallbiznis/orderdesk/internal/reference/domain"
)

type cityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type districtResponse struct {
	ID     string `json:"id"`
	CityID string `json:"city_id"`
	Name   string `json:"name"`
}

type villageResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) ListCities(c *gin.Context) {
	cities, err := s.refrepo.ListCities(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]cityResponse, 0, len(cities))
	for _, city := range cities {
		resp = append(resp, cityResponse{ID: city.ID.String(), Name: city.Name})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListDistricts serves every district, or one city's districts when
// city_id is given. The name "district" is city-scoped, so callers that
// render a picker usually pass city_id.
func (s *Server) ListDistricts(c *gin.Context) {
	cityID, err := parseOptionalID(c.Query("city_id"), "city_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var districts []referencedomain.District
	if cityID != 0 {
		districts, err = s.refrepo.ListDistrictsByCity(c.Request.Context(), s.db, cityID)
	} else {
		districts, err = s.refrepo.ListDistricts(c.Request.Context(), s.db)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toDistrictResponses(districts)})
}

func (s *Server) ListDistrictsByCity(c *gin.Context) {
	cityID, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	districts, err := s.refrepo.ListDistrictsByCity(c.Request.Context(), s.db, cityID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toDistrictResponses(districts)})
}

func (s *Server) ListVillages(c *gin.Context) {
	villages, err := s.refrepo.ListVillages(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]villageResponse, 0, len(villages))
	for _, village := range villages {
		resp = append(resp, villageResponse{ID: village.ID.String(), Name: village.Name})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func toDistrictResponses(districts []referencedomain.District) []districtResponse {
	resp := make([]districtResponse, 0, len(districts))
	for _, district := range districts {
		resp = append(resp, districtResponse{
			ID:     district.ID.String(),
			CityID: district.CityID.String(),
			Name:   district.Name,
		})
	}
	return resp
}
