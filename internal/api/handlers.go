package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// historyTimeout bounds the synchronous history lookup.
const historyTimeout = 20 * time.Second

type inputRequest struct {
	Text string `json:"text"`
}

type loadRequest struct {
	Query string `json:"query"`
	Days  int    `json:"days"`
}

type selectRequest struct {
	Name string `json:"name"`
}

// acceptedResponse acknowledges a started operation; its outcome arrives
// through the state and the event stream.
type acceptedResponse struct {
	Status string `json:"status"`
	Query  string `json:"query,omitempty"`
	Days   int    `json:"days,omitempty"`
}

type locationResponse struct {
	Source    string  `json:"source"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Query     string  `json:"query"`
}

func (s *Server) getState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.controller.State())
}

// postInput forwards the text verbatim; whitespace is significant.
func (s *Server) postInput(c echo.Context) error {
	var req inputRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	s.controller.OnInputChanged(req.Text)
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "accepted", Query: req.Text})
}

func (s *Server) postLoad(c echo.Context) error {
	var req loadRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if trimmed(req.Query) == "" {
		return errorJSON(c, http.StatusBadRequest, "query is required")
	}
	days := req.Days
	if days <= 0 {
		days = s.config.ForecastDays
	}
	s.controller.LoadWeatherForLocation(req.Query, days)
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "accepted", Query: req.Query, Days: days})
}

// postSelect loads a suggestion by name and clears the search box.
func (s *Server) postSelect(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if trimmed(req.Name) == "" {
		return errorJSON(c, http.StatusBadRequest, "name is required")
	}
	s.controller.LoadWeatherForLocation(req.Name, s.config.ForecastDays)
	s.controller.OnInputChanged("")
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "accepted", Query: req.Name, Days: s.config.ForecastDays})
}

// postReload loads the current input as typed, or the default query when
// the input is empty.
func (s *Server) postReload(c echo.Context) error {
	query := s.controller.InputText()
	if query == "" {
		query = s.config.DefaultQuery
	}
	s.controller.LoadWeatherForLocation(query, s.config.ForecastDays)
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "accepted", Query: query, Days: s.config.ForecastDays})
}

func (s *Server) getHistory(c echo.Context) error {
	if s.history == nil {
		return errorJSON(c, http.StatusNotImplemented, "history is not available")
	}

	query := trimmed(c.QueryParam("q"))
	date := trimmed(c.QueryParam("dt"))
	if query == "" || date == "" {
		return errorJSON(c, http.StatusBadRequest, "q and dt are required")
	}

	ctx, cancel := s.requestContext(c, historyTimeout)
	defer cancel()

	var (
		snap *weatherapi.Snapshot
		err  error
	)
	if h := c.QueryParam("hour"); h != "" {
		hour, convErr := strconv.Atoi(h)
		if convErr != nil {
			return errorJSON(c, http.StatusBadRequest, "hour must be an integer")
		}
		snap, err = s.history.FetchHistoryHour(ctx, query, date, hour)
	} else {
		snap, err = s.history.FetchHistory(ctx, query, date)
	}
	if err != nil {
		status := statusForError(err)
		s.log.Warn("history lookup failed",
			logger.String("query", query),
			logger.String("date", date),
			logger.Int("status", status),
			logger.Error(err))
		return errorJSON(c, status, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) getLocation(c echo.Context) error {
	if s.locator == nil {
		return errorJSON(c, http.StatusNotImplemented, "device location is not available")
	}
	coords, ok := s.locator.LastKnownLocation(c.Request().Context())
	if !ok {
		return errorJSON(c, http.StatusNotFound, "location unknown")
	}
	return c.JSON(http.StatusOK, locationResponse{
		Source:    s.locator.Source(),
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Query:     coords.Query(),
	})
}

// postLocate loads the weather for the device location.
func (s *Server) postLocate(c echo.Context) error {
	if s.locator == nil {
		return errorJSON(c, http.StatusNotImplemented, "device location is not available")
	}
	coords, ok := s.locator.LastKnownLocation(c.Request().Context())
	if !ok {
		return errorJSON(c, http.StatusNotFound, "location unknown")
	}
	query := coords.Query()
	s.controller.LoadWeatherForLocation(query, s.config.ForecastDays)
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "accepted", Query: query, Days: s.config.ForecastDays})
}

// statusForError maps client failures to HTTP statuses. Provider 4xx
// answers such as an unknown location are the caller's problem; the rest
// are upstream failures.
func statusForError(err error) int {
	rf, ok := weatherapi.AsRequestFailed(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch rf.Kind {
	case weatherapi.KindValidation:
		return http.StatusBadRequest
	case weatherapi.KindHTTPStatus:
		if rf.StatusCode >= 400 && rf.StatusCode < 500 {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
