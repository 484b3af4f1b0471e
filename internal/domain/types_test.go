package domain

import (
	"errors"
	"testing"
)

func TestPaginationNormalize(t *testing.T) {
	cases := []struct {
		in   Pagination
		want Pagination
	}{
		{Pagination{}, Pagination{Limit: DefaultPageLimit}},
		{Pagination{Limit: 10, AfterID: 5}, Pagination{Limit: 10, AfterID: 5}},
		{Pagination{Limit: 1000}, Pagination{Limit: MaxPageLimit}},
		{Pagination{Limit: -3, AfterID: -1}, Pagination{Limit: DefaultPageLimit}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), InsufficientCapacityError{RideID: 1, Requested: 3, Available: 2})
	if !IsInsufficientCapacity(wrapped) {
		t.Fatalf("IsInsufficientCapacity should unwrap")
	}
	cause := errors.New("dial tcp: connection refused")
	terr := TransportError{Op: "reserve", Err: cause}
	if !IsTransport(terr) || !errors.Is(terr, cause) {
		t.Fatalf("TransportError should expose its cause")
	}
	if IsSelfBooking(terr) || IsInvalidRequest(terr) || IsNotFound(terr) {
		t.Fatalf("TransportError matched an unrelated kind")
	}
}
