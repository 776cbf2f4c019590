package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tavolo/tavolo/internal/orders"
)

// tavolo cart
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart with server-computed totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		cart := sess.client.GetCart(cmd.Context(), sess.whoFor())
		printCart(cart)
		return nil
	},
}

// tavolo cart:add <item-id> [quantity]
var cartAddCmd = &cobra.Command{
	Use:   "cart:add <item-id> [quantity]",
	Short: "Add an item to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		quantity := 1
		if len(args) == 2 {
			quantity, err = strconv.Atoi(args[1])
			if err != nil || quantity < 1 {
				return fmt.Errorf("quantity must be a positive number, got %q", args[1])
			}
		}

		id := sess.whoFor()
		req := orders.AddRequest{
			ItemID:   args[0],
			Quantity: quantity,
			Category: flagCartCategory,
			DietType: flagCartDiet,
		}
		if err := sess.client.AddToCart(cmd.Context(), id, req); err != nil {
			return err
		}

		// Mutations return no cart; re-fetch for the authoritative totals.
		printCart(sess.client.GetCart(cmd.Context(), id))
		return nil
	},
}

// tavolo cart:update <item-id> <quantity>
var cartUpdateCmd = &cobra.Command{
	Use:   "cart:update <item-id> <quantity>",
	Short: "Set an item's quantity (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number, got %q", args[1])
		}

		id := sess.whoFor()
		// Zero or below means removal; that switch lives here, not in the
		// client.
		if quantity <= 0 {
			err = sess.client.RemoveFromCart(cmd.Context(), id, args[0])
		} else {
			err = sess.client.UpdateQuantity(cmd.Context(), id, args[0], quantity)
		}
		if err != nil {
			return err
		}

		printCart(sess.client.GetCart(cmd.Context(), id))
		return nil
	},
}

// tavolo cart:remove <item-id>
var cartRemoveCmd = &cobra.Command{
	Use:   "cart:remove <item-id>",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		id := sess.whoFor()
		if err := sess.client.RemoveFromCart(cmd.Context(), id, args[0]); err != nil {
			return err
		}

		printCart(sess.client.GetCart(cmd.Context(), id))
		return nil
	},
}

// tavolo cart:watch
var cartWatchCmd = &cobra.Command{
	Use:   "cart:watch",
	Short: "Poll the cart and print every change until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		fmt.Println("Watching cart; Ctrl-C to stop.")
		orders.NewWatcher(sess.client, sess.whoFor(), 0).
			OnUpdate(func(cart orders.Cart) { printCart(cart) }).
			Run(cmd.Context())
		return nil
	},
}

var (
	flagCartCategory string
	flagCartDiet     string
)

func init() {
	cartAddCmd.Flags().StringVar(&flagCartCategory, "category", "", "menu category of the item")
	cartAddCmd.Flags().StringVar(&flagCartDiet, "diet", "", "diet type: veg or non_veg")
}

func printCart(cart orders.Cart) {
	if cart.ItemCount == 0 {
		fmt.Println("Cart is empty.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQTY\tPRICE\tTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\n", item.Name, item.Quantity, item.Price, item.ItemTotal)
	}
	fmt.Fprintf(w, "\t\tsubtotal\t%.2f\n", cart.Subtotal)
	fmt.Fprintf(w, "\t\ttax\t%.2f\n", cart.Tax)
	fmt.Fprintf(w, "\t\ttotal\t%.2f\n", cart.Total)
	w.Flush()
}
