package models

import "time"

const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit card"
)

type Trip struct {
	Pickup         time.Time `json:"pickup"`
	Dropoff        time.Time `json:"dropoff"`
	Passengers     int       `json:"passengers"`
	Distance       float64   `json:"distance"` // miles
	Fare           float64   `json:"fare"`
	Tip            float64   `json:"tip"`
	Tolls          float64   `json:"tolls"`
	Total          float64   `json:"total"`
	Color          string    `json:"color"`   // "yellow", "green"
	Payment        string    `json:"payment"` // "cash", "credit card"
	PickupZone     string    `json:"pickup_zone"`
	DropoffZone    string    `json:"dropoff_zone"`
	PickupBorough  string    `json:"pickup_borough"`
	DropoffBorough string    `json:"dropoff_borough"`
}
