package orders

// MenuItem is one dish as the menu endpoint returns it.
type MenuItem struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// MenuCategory groups items into veg and non-veg arrays, mirroring the
// wire shape exactly.
type MenuCategory struct {
	CategoryName string     `json:"category_name"`
	Veg          []MenuItem `json:"veg"`
	NonVeg       []MenuItem `json:"non_veg"`
}

// Menu is the full menu response.
type Menu struct {
	Categories []MenuCategory `json:"categories"`
}

// CartItem is one line of the server-owned cart aggregate.
type CartItem struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ItemTotal float64 `json:"item_total"`
	Category  string  `json:"category,omitempty"`
	DietType  string  `json:"diet_type,omitempty"`
}

// Cart is the server-computed aggregate. The client never derives these
// totals itself; every displayed cart is a snapshot of a fetch.
type Cart struct {
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// ZeroCart is the safe default a view can always render.
func ZeroCart() Cart {
	return Cart{Items: []CartItem{}}
}

// AddRequest carries the fields of a cart addition.
type AddRequest struct {
	ItemID   string `json:"item_id"  validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Category string `json:"category"`
	DietType string `json:"diet_type" validate:"nullable,in=veg,non_veg"`
}

// CheckoutForm carries the checkout fields. The empty-cart precondition
// lives with the caller, not here.
type CheckoutForm struct {
	OrderType           string `json:"order_type"           validate:"required,in=dine_in,takeaway,delivery"`
	PaymentMethod       string `json:"payment_method"       validate:"required,in=cash,card,upi"`
	DeliveryAddress     string `json:"delivery_address"     validate:"nullable,min=10"`
	SpecialInstructions string `json:"special_instructions" validate:"nullable,max=500"`
}

// Order is a server-owned record. Status is an enum the client renders
// but never transitions; every change originates server-side.
type Order struct {
	OrderID         string     `json:"order_id"`
	Items           []CartItem `json:"items"`
	Total           float64    `json:"total"`
	Status          string     `json:"status"`
	Type            string     `json:"type"`
	PaymentMethod   string     `json:"payment_method"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	CreatedAt       string     `json:"created_at,omitempty"`
	UpdatedAt       string     `json:"updated_at,omitempty"`
}

// Event is a bookable restaurant event.
type Event struct {
	EventID      string  `json:"event_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Date         string  `json:"date"`
	PricePerSeat float64 `json:"price_per_seat"`
	SeatsLeft    int     `json:"seats_left"`
}

// EventBookingForm carries an event booking request.
type EventBookingForm struct {
	EventID string `json:"event_id" validate:"required"`
	Seats   int    `json:"seats"    validate:"required,min=1,max=20"`
}
