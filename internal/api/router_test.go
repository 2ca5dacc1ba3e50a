package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/sports-booking/internal/app"
	bookingHttp "github.com/nekogravitycat/sports-booking/internal/booking/http"
	coachHttp "github.com/nekogravitycat/sports-booking/internal/coach/http"
	courtHttp "github.com/nekogravitycat/sports-booking/internal/court/http"
	equipmentHttp "github.com/nekogravitycat/sports-booking/internal/equipment/http"
	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
	pricingHttp "github.com/nekogravitycat/sports-booking/internal/pricing/http"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return app.NewContainer(app.Config{Location: time.UTC, ReservationTimeout: 5 * time.Second}).Router
}

func executeRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	router := newTestRouter()
	w := executeRequest(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestBookingFlow(t *testing.T) {
	router := newTestRouter()

	var courtID, coachID, racketID, bookingID string

	t.Run("Setup catalog", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/courts", courtHttp.CreateCourtBody{
			Name: "Center Court", Type: "outdoor", BasePrice: decimal.NewFromInt(100),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		courtID = decode[courtHttp.CourtResponse](t, w).ID

		w = executeRequest(router, "POST", "/v1/coaches", coachHttp.CreateCoachBody{
			Name: "Mei", Email: "mei@example.com", HourlyRate: decimal.NewFromInt(30),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		coachID = decode[coachHttp.CoachResponse](t, w).ID

		w = executeRequest(router, "POST", "/v1/equipment", equipmentHttp.CreateEquipmentBody{
			Name: "Racket", Type: "racket", TotalStock: 4, RentalPrice: decimal.NewFromInt(5),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		racketID = decode[equipmentHttp.EquipmentResponse](t, w).ID

		start, end := 18, 21
		w = executeRequest(router, "POST", "/v1/pricing-rules", pricingHttp.CreateRuleBody{
			Name: "Evening", Type: "peak_hour", Modifier: decimal.RequireFromString("1.5"),
			StartHour: &start, EndHour: &end,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = executeRequest(router, "POST", "/v1/pricing-rules", pricingHttp.CreateRuleBody{
			Name: "Late", Type: "peak_hour", Modifier: decimal.RequireFromString("2"),
			StartHour: &start, EndHour: &end,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "configuration", decode[response.ErrorResponse](t, w).Code)

		bad := 24
		w = executeRequest(router, "POST", "/v1/pricing-rules", pricingHttp.CreateRuleBody{
			Name: "Bad", Type: "weekend", Modifier: decimal.NewFromInt(1), StartHour: &bad,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// 2024-01-01 is a Monday.
	evening := bookingHttp.ResourceBody{
		CourtID:   courtID,
		StartTime: time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, time.January, 1, 20, 0, 0, 0, time.UTC),
	}

	t.Run("Quote", func(t *testing.T) {
		body := evening
		w := executeRequest(router, "POST", "/v1/bookings/quote", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		quote := decode[pricingHttp.BreakdownResponse](t, w)
		assert.True(t, quote.BasePrice.Equal(decimal.NewFromInt(200)))
		assert.True(t, quote.PeakHourFee.Equal(decimal.NewFromInt(100)))
		assert.True(t, quote.Total.Equal(decimal.NewFromInt(300)))
	})

	t.Run("Create", func(t *testing.T) {
		body := evening
		body.CoachID = coachID
		body.Equipment = []bookingHttp.EquipmentLineBody{{Item: racketID, Quantity: 2}}

		w := executeRequest(router, "POST", "/v1/bookings", bookingHttp.CreateBookingBody{User: "alice", ResourceBody: body})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		b := decode[bookingHttp.BookingResponse](t, w)
		bookingID = b.ID
		assert.Equal(t, "confirmed", b.Status)
		require.NotNil(t, b.CoachID)
		assert.Equal(t, coachID, *b.CoachID)
		require.Len(t, b.Equipment, 1)
		// 200 base + 100 peak + 20 equipment + 60 coach
		assert.True(t, b.Price.Total.Equal(decimal.NewFromInt(380)), b.Price.Total.String())
	})

	t.Run("Overlapping booking is rejected with details", func(t *testing.T) {
		body := evening
		body.StartTime = body.StartTime.Add(time.Hour)
		body.EndTime = body.EndTime.Add(time.Hour)

		w := executeRequest(router, "POST", "/v1/bookings", bookingHttp.CreateBookingBody{User: "bob", ResourceBody: body})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error   string `json:"error"`
			Code    string `json:"code"`
			Details []struct {
				Kind       string `json:"kind"`
				ResourceID string `json:"resourceId"`
			} `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "court_conflict", resp.Code)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, courtID, resp.Details[0].ResourceID)
	})

	t.Run("Availability", func(t *testing.T) {
		body := evening
		w := executeRequest(router, "POST", "/v1/bookings/availability", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		res := decode[bookingHttp.AvailabilityResponse](t, w)
		assert.False(t, res.Available)
		assert.Len(t, res.Conflicts, 1)
	})

	t.Run("List and Get", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/bookings?user=alice&date=2024-01-01", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		list := decode[[]bookingHttp.BookingResponse](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, bookingID, list[0].ID)

		w = executeRequest(router, "GET", "/v1/bookings?date=2024-01-02", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = executeRequest(router, "GET", "/v1/bookings?date=01/01/2024", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest(router, "GET", "/v1/bookings/"+bookingID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = executeRequest(router, "GET", "/v1/bookings/5b0f6f4e-8d7c-4c53-9a3e-1f2d3c4b5a69", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decode[response.ErrorResponse](t, w).Code)
	})

	t.Run("Cancel is idempotent", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s", bookingID)
		w := executeRequest(router, "DELETE", path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = executeRequest(router, "DELETE", path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = executeRequest(router, "GET", path, nil)
		assert.Equal(t, "cancelled", decode[bookingHttp.BookingResponse](t, w).Status)

		w = executeRequest(router, "DELETE", "/v1/bookings/5b0f6f4e-8d7c-4c53-9a3e-1f2d3c4b5a69", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid input", func(t *testing.T) {
		body := evening
		body.EndTime = body.StartTime

		w := executeRequest(router, "POST", "/v1/bookings", bookingHttp.CreateBookingBody{User: "alice", ResourceBody: body})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", decode[response.ErrorResponse](t, w).Code)

		w = executeRequest(router, "POST", "/v1/bookings", map[string]any{"courtId": courtID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
