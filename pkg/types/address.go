package types

// Address carries the structured shipping/billing address submitted at
// checkout. It is persisted as a JSON snapshot alongside the denormalized
// order columns.
type Address struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=255"`
	State     string `json:"state" validate:"required,max=255"`
	ZipCode   string `json:"zipCode" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,len=2"`
}
