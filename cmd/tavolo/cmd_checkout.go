package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tavolo/tavolo/internal/orders"
	"github.com/tavolo/tavolo/pkg/validate"
)

// tavolo checkout
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		id := sess.whoFor()

		// Empty-cart is a local precondition, checked before any network
		// call is made.
		if cart := sess.client.GetCart(cmd.Context(), id); cart.ItemCount == 0 {
			return fmt.Errorf("cart is empty; add items before checking out")
		}

		form := orders.CheckoutForm{
			OrderType:           flagOrderType,
			PaymentMethod:       flagPayment,
			DeliveryAddress:     flagAddress,
			SpecialInstructions: flagInstructions,
		}
		if errs := validate.Struct(form); validate.HasErrors(errs) {
			return fmt.Errorf("%s", validate.First(errs))
		}
		if form.OrderType == "delivery" && form.DeliveryAddress == "" {
			return fmt.Errorf("delivery orders need --address")
		}

		orderID, err := sess.client.Checkout(cmd.Context(), id, form)
		if err != nil {
			return err
		}

		fmt.Printf("Order placed: %s\n", orderID)
		return nil
	},
}

var (
	flagOrderType    string
	flagPayment      string
	flagAddress      string
	flagInstructions string
)

func init() {
	checkoutCmd.Flags().StringVar(&flagOrderType, "type", "dine_in", "order type: dine_in, takeaway, or delivery")
	checkoutCmd.Flags().StringVar(&flagPayment, "pay", "cash", "payment method: cash, card, or upi")
	checkoutCmd.Flags().StringVar(&flagAddress, "address", "", "delivery address (delivery orders)")
	checkoutCmd.Flags().StringVar(&flagInstructions, "note", "", "special instructions for the kitchen")
}
