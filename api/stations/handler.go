package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kilianp07/energycore/api/respond"
	"github.com/kilianp07/energycore/core/geo"
	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/core/ranking"
)

// Service is the subset of the engine used by the station endpoints.
type Service interface {
	NearbyStations(ctx context.Context, ref *geo.GeoPoint, filter *model.StationType) ([]ranking.RankedStation, error)
	AddStation(ctx context.Context, st model.Station) (model.Station, error)
}

// CreateRequest is the body of POST /api/stations.
type CreateRequest struct {
	Name         string   `json:"name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	StationType  string   `json:"station_type"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	PricePerUnit *float64 `json:"price_per_unit"`
	Rating       float64  `json:"rating"`
	Open24x7     bool     `json:"open_24_7"`
}

// NewListHandler serves GET /api/stations?latitude=&longitude=&station_type=.
// Stations are ranked by distance only when both coordinates are given.
func NewListHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var filter *model.StationType
		if s := q.Get("station_type"); s != "" {
			typ, err := model.ParseStationType(s)
			if err != nil {
				respond.Err(w, err)
				return
			}
			filter = &typ
		}
		ref, err := parseRef(q.Get("latitude"), q.Get("longitude"))
		if err != nil {
			respond.Err(w, err)
			return
		}
		res, err := svc.NearbyStations(r.Context(), ref, filter)
		if err != nil {
			respond.Err(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, res)
	})
}

// NewCreateHandler serves POST /api/stations.
func NewCreateHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Err(w, fmt.Errorf("%w: invalid JSON body", respond.ErrBadRequest))
			return
		}
		if req.Latitude == nil || req.Longitude == nil {
			respond.Err(w, fmt.Errorf("%w: latitude and longitude are required", respond.ErrBadRequest))
			return
		}
		st, err := svc.AddStation(r.Context(), model.Station{
			Name:         req.Name,
			Location:     geo.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude},
			Type:         model.StationType(req.StationType),
			Address:      req.Address,
			Phone:        req.Phone,
			PricePerUnit: req.PricePerUnit,
			Rating:       req.Rating,
			Open24x7:     req.Open24x7,
		})
		if err != nil {
			respond.Err(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, st)
	})
}

func parseRef(lat, lon string) (*geo.GeoPoint, error) {
	if lat == "" || lon == "" {
		return nil, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q", respond.ErrBadRequest, lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q", respond.ErrBadRequest, lon)
	}
	p, err := geo.NewPoint(la, lo)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
