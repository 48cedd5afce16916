package create_booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHTTPRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		PackageID:    "15-days",
		SelectedDate: "2026-03-02",
		SelectedTime: "09:00",
		Phone:        "+8801712345678",
		Name:         "Test Student",
		Age:          22,
		Gender:       "male",
		WhyLearning:  "work-career",
		Address:      "12 Lake Road",
	}
}

func TestToUseCaseRequest(t *testing.T) {
	req, err := validHTTPRequest().ToUseCaseRequest("uid-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", req.UserUID)
	assert.Equal(t, "09:00", req.SelectedTime.String())
}

func TestToUseCaseRequest_DistinguishesParseErrors(t *testing.T) {
	bad := validHTTPRequest()
	bad.SelectedDate = "02.03.2026"
	_, err := bad.ToUseCaseRequest("uid-1")
	require.ErrorIs(t, err, errInvalidDate)

	bad = validHTTPRequest()
	bad.SelectedTime = "9am"
	_, err = bad.ToUseCaseRequest("uid-1")
	require.ErrorIs(t, err, errInvalidTime)

	// Неканоническая запись времени тоже отклоняется на границе HTTP
	bad = validHTTPRequest()
	bad.SelectedTime = "9:00"
	_, err = bad.ToUseCaseRequest("uid-1")
	require.ErrorIs(t, err, errInvalidTime)
}
