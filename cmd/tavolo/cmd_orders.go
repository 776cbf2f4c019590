package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// tavolo orders
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show order history for the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		history := sess.client.GetUserOrders(cmd.Context(), sess.whoFor())
		if len(history) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ORDER\tSTATUS\tTYPE\tPAYMENT\tTOTAL\tPLACED")
		for _, order := range history {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
				order.OrderID, order.Status, order.Type, order.PaymentMethod, order.Total, order.CreatedAt)
		}
		return w.Flush()
	},
}
