package devserver

import (
	"net/http"
	"strings"

	"github.com/tavolo/tavolo/pkg/bind"
	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/response"
	"github.com/tavolo/tavolo/pkg/router"
	"github.com/tavolo/tavolo/pkg/token"
)

// ─── Identity endpoints ───────────────────────────────────────────────────────

type loginForm struct {
	PhoneOrEmail string `json:"phone_number_or_email" validate:"required"`
	Password     string `json:"password"              validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if !bind.JSON(w, r, &form) {
		return
	}

	acc := s.state.authenticate(form.PhoneOrEmail, form.Password)
	if acc == nil {
		response.Unauthorized(w, "invalid credentials")
		return
	}

	signed, err := token.Generate(acc.ID, acc.Role)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token generation failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response.OK(w, response.Envelope{
		"message": "login successful",
		"user_id": acc.ID,
		"name":    acc.Name,
		"role":    acc.Role,
		"token":   signed,
	})
}

type signupForm struct {
	Name            string `json:"name"             validate:"required,min=2,max=50"`
	PhoneNumber     string `json:"phone_number"     validate:"required,phone"`
	Email           string `json:"email"            validate:"nullable,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var form signupForm
	if !bind.JSON(w, r, &form) {
		return
	}
	if form.Password != form.ConfirmPassword {
		response.Invalid(w, "passwords do not match", map[string]string{
			"confirm_password": "passwords do not match",
		})
		return
	}

	acc, err := s.state.createAccount(form.Name, form.PhoneNumber, form.Email, form.Password)
	if err != nil {
		response.Error(w, http.StatusConflict, err.Error())
		return
	}

	response.Created(w, response.Envelope{
		"message": "account created",
		"name":    acc.Name,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout exists so clients have something to
	// notify. Nothing to revoke.
	response.OK(w, response.Envelope{"message": "logged out"})
}

type profileForm struct {
	Name  string `json:"name"  validate:"nullable,min=2,max=50"`
	Phone string `json:"phone" validate:"nullable,phone"`
	Email string `json:"email" validate:"nullable,email"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := s.requireAuth(w, r)
	if claims == nil {
		return
	}

	var form profileForm
	if !bind.JSON(w, r, &form) {
		return
	}

	acc := s.state.updateAccount(claims.UserID, form.Name, form.Phone, form.Email)
	if acc == nil {
		response.NotFound(w, "account not found")
		return
	}

	response.OK(w, response.Envelope{
		"user": map[string]string{
			"id":    acc.ID,
			"name":  acc.Name,
			"phone": acc.Phone,
			"email": acc.Email,
			"role":  acc.Role,
		},
	})
}

// requireAuth validates the bearer token and writes the 401 itself when
// it is missing or bad.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) *token.Claims {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		response.Unauthorized(w, "missing bearer token")
		return nil
	}

	claims, err := token.Validate(raw)
	if err != nil {
		response.Unauthorized(w, "invalid token")
		return nil
	}
	return claims
}

// ─── Menu and cart endpoints ──────────────────────────────────────────────────

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	menu := s.state.menuSnapshot()
	response.OK(w, response.Envelope{"categories": menu.Categories})
}

type cartAddForm struct {
	UserID   string `json:"user_id"   validate:"required"`
	ItemID   string `json:"item_id"   validate:"required"`
	Quantity int    `json:"quantity"  validate:"required,min=1"`
	Category string `json:"category"`
	DietType string `json:"diet_type" validate:"nullable,in=veg,non_veg"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var form cartAddForm
	if !bind.JSON(w, r, &form) {
		return
	}

	if err := s.state.addToCart(form.UserID, form.ItemID, form.Quantity, form.Category, form.DietType); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.OK(w, response.Envelope{"message": "item added"})
}

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	userKey := router.Param(r, "user_id")
	cart := s.state.cartSnapshot(userKey)
	response.OK(w, response.Envelope{
		"items":      cart.Items,
		"subtotal":   cart.Subtotal,
		"tax":        cart.Tax,
		"total":      cart.Total,
		"item_count": cart.ItemCount,
	})
}

type quantityForm struct {
	UserID      string `json:"user_id" validate:"required"`
	ItemID      string `json:"item_id" validate:"required"`
	NewQuantity int    `json:"new_quantity"`
}

func (s *Server) handleCartUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var form quantityForm
	if !bind.JSON(w, r, &form) {
		return
	}

	if err := s.state.setQuantity(form.UserID, form.ItemID, form.NewQuantity); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.OK(w, response.Envelope{"message": "quantity updated"})
}

type removeForm struct {
	UserID string `json:"user_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	var form removeForm
	if !bind.JSON(w, r, &form) {
		return
	}

	if err := s.state.removeFromCart(form.UserID, form.ItemID); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.OK(w, response.Envelope{"message": "item removed"})
}

// ─── Checkout and history ─────────────────────────────────────────────────────

type checkoutForm struct {
	UserID              string `json:"user_id"              validate:"required"`
	OrderType           string `json:"order_type"           validate:"required,in=dine_in,takeaway,delivery"`
	PaymentMethod       string `json:"payment_method"       validate:"required,in=cash,card,upi"`
	DeliveryAddress     string `json:"delivery_address"`
	SpecialInstructions string `json:"special_instructions" validate:"nullable,max=500"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var form checkoutForm
	if !bind.JSON(w, r, &form) {
		return
	}
	if form.OrderType == "delivery" && len(form.DeliveryAddress) < 10 {
		response.Invalid(w, "delivery address is required for delivery orders", map[string]string{
			"delivery_address": "delivery address is required for delivery orders",
		})
		return
	}

	orderID, err := s.state.checkout(form.UserID, form.OrderType, form.PaymentMethod, form.DeliveryAddress)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.WithCtx(r.Context()).Info("order placed", "order_id", orderID, "user", form.UserID)
	response.Created(w, response.Envelope{"order_id": orderID})
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	userKey := router.Param(r, "user_id")
	response.OK(w, response.Envelope{"data": s.state.userOrders(userKey)})
}

// ─── Events ───────────────────────────────────────────────────────────────────

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.Envelope{"data": s.state.eventList()})
}

type bookingForm struct {
	UserID  string `json:"user_id"  validate:"required"`
	EventID string `json:"event_id" validate:"required"`
	Seats   int    `json:"seats"    validate:"required,min=1,max=20"`
}

func (s *Server) handleBookEvent(w http.ResponseWriter, r *http.Request) {
	var form bookingForm
	if !bind.JSON(w, r, &form) {
		return
	}

	bookingID, err := s.state.bookEvent(form.EventID, form.Seats)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.Created(w, response.Envelope{"booking_id": bookingID})
}
