package models

import "time"

// FlightResult is one ranked flight offer returned by the search provider.
type FlightResult struct {
	Airline       string `json:"airline"`
	Price         string `json:"price"`
	Duration      string `json:"duration"`
	Stops         int    `json:"stops"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	URL           string `json:"url"`
}

// HotelResult is one ranked hotel offer returned by the search provider.
type HotelResult struct {
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
	ImageURL string  `json:"image_url"`
	URL      string  `json:"url"`
}

// FlightSearchParams describe one flight search. Origin and Destination are
// IATA-style 3-letter airport codes.
type FlightSearchParams struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	DepartDate  time.Time  `json:"depart_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Passengers  int        `json:"passengers"`
}

// HotelSearchParams describe one hotel search by free-form location name.
type HotelSearchParams struct {
	Location string    `json:"location"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Guests   int       `json:"guests"`
}

// PlaceResult is the coordinate plus ranked nearby points of interest the
// place-lookup provider returns for a free-form place name.
type PlaceResult struct {
	Name      string      `json:"name"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Nearby    []NearbyPOI `json:"nearby"`
}

// NearbyPOI is one ranked point of interest near a looked-up place.
type NearbyPOI struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	PhotoURL string  `json:"photo_url,omitempty"`
}

// AirportCodes pairs the inferred IATA codes for an origin/destination city
// pair.
type AirportCodes struct {
	OriginCode      string `json:"originCode"`
	DestinationCode string `json:"destinationCode"`
}
