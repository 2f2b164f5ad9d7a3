package models

// DateLayout is the calendar date format used for all persisted dates.
const DateLayout = "2006-01-02"

// InventoryItem is one physical item tracked through its resale lifecycle.
// ActualSellPrice and SoldDate are only set once the item is sold.
type InventoryItem struct {
	ID                 string     `json:"id" bson:"_id"`
	Name               string     `json:"name" bson:"name"`
	Category           Category   `json:"category" bson:"category"`
	Brand              string     `json:"brand,omitempty" bson:"brand,omitempty"`
	Size               string     `json:"size,omitempty" bson:"size,omitempty"`
	Condition          Condition  `json:"condition" bson:"condition"`
	PurchasePrice      float64    `json:"purchasePrice" bson:"purchase_price"`
	PurchaseDate       string     `json:"purchaseDate" bson:"purchase_date"`
	EstimatedSellPrice float64    `json:"estimatedSellPrice" bson:"estimated_sell_price"`
	ActualSellPrice    *float64   `json:"actualSellPrice,omitempty" bson:"actual_sell_price,omitempty"`
	SoldDate           string     `json:"soldDate,omitempty" bson:"sold_date,omitempty"`
	Status             ItemStatus `json:"status" bson:"status"`
	ListingURL         string     `json:"ebayListingUrl,omitempty" bson:"listing_url,omitempty"`
	Photos             []string   `json:"photos,omitempty" bson:"photos,omitempty"`
	Notes              string     `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Supplier is a prospective bulk-goods source.
type Supplier struct {
	ID                   string   `json:"id" bson:"_id"`
	Name                 string   `json:"name" bson:"name"`
	Country              string   `json:"country" bson:"country"`
	ContactEmail         string   `json:"contactEmail,omitempty" bson:"contact_email,omitempty"`
	ContactPhone         string   `json:"contactPhone,omitempty" bson:"contact_phone,omitempty"`
	Website              string   `json:"website,omitempty" bson:"website,omitempty"`
	ProductTypes         []string `json:"productTypes" bson:"product_types"`
	MinimumOrderQuantity int      `json:"minimumOrderQuantity" bson:"minimum_order_quantity"`
	UnitPrice            float64  `json:"unitPrice" bson:"unit_price"`
	ShippingCost         float64  `json:"shippingCost" bson:"shipping_cost"`
	LeadTimeDays         int      `json:"leadTimeDays" bson:"lead_time_days"`
	Notes                string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Rating               *int     `json:"rating,omitempty" bson:"rating,omitempty"`
}

// Transaction is a ledger entry for purchases, sales and expenses.
type Transaction struct {
	ID          string          `json:"id" bson:"_id"`
	Type        TransactionType `json:"type" bson:"type"`
	Date        string          `json:"date" bson:"date"`
	Amount      float64         `json:"amount" bson:"amount"`
	ItemID      string          `json:"itemId,omitempty" bson:"item_id,omitempty"`
	Description string          `json:"description" bson:"description"`
	Category    string          `json:"category" bson:"category"`
}

// Goal is a target metric with a deadline.
type Goal struct {
	ID       string     `json:"id" bson:"_id"`
	Title    string     `json:"title" bson:"title"`
	Type     GoalType   `json:"type" bson:"type"`
	Target   float64    `json:"target" bson:"target"`
	Current  float64    `json:"current" bson:"current"`
	Deadline string     `json:"deadline" bson:"deadline"`
	Period   GoalPeriod `json:"period" bson:"period"`
}

// Progress returns completion in percent; zero when the target is zero.
func (g Goal) Progress() float64 {
	if g.Target == 0 {
		return 0
	}
	return g.Current / g.Target * 100
}

// Remaining returns how much is left to reach the target, never negative.
func (g Goal) Remaining() float64 {
	if g.Current >= g.Target {
		return 0
	}
	return g.Target - g.Current
}
