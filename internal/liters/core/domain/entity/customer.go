package entity

type Customer struct {
	ID     string
	Liters Liters
}
