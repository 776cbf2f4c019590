package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tavolo/tavolo/internal/orders"
)

// tavolo events
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List bookable restaurant events",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		events, err := sess.client.GetEvents(cmd.Context())
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No upcoming events.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "EVENT\tNAME\tDATE\tPER SEAT\tSEATS LEFT")
		for _, ev := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n", ev.EventID, ev.Name, ev.Date, ev.PricePerSeat, ev.SeatsLeft)
		}
		return w.Flush()
	},
}

// tavolo events:book <event-id> <seats>
var eventsBookCmd = &cobra.Command{
	Use:   "events:book <event-id> <seats>",
	Short: "Book seats at an event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		seats, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("seats must be a number, got %q", args[1])
		}

		form := orders.EventBookingForm{EventID: args[0], Seats: seats}
		bookingID, err := sess.client.BookEvent(cmd.Context(), sess.whoFor(), form)
		if err != nil {
			return err
		}

		fmt.Printf("Booked: %s\n", bookingID)
		return nil
	},
}
