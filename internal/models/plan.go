package models

// Plan is a fixed (price, credit count) pair offered for purchase.
// Amount is in whole currency units.
type Plan struct {
	ID      string `json:"id"`
	Credits int    `json:"credits"`
	Amount  int    `json:"amount"`
}

// Plans is the full offering. The set is fixed; anything else is
// rejected at order creation.
var Plans = []Plan{
	{ID: "Basic", Credits: 100, Amount: 10},
	{ID: "Advanced", Credits: 500, Amount: 50},
	{ID: "Business", Credits: 5000, Amount: 250},
}

// PlanByID looks a plan up by its id.
func PlanByID(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
