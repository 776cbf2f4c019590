package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// tavolo menu
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Browse the menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		menu, err := sess.client.GetMenu(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		for _, cat := range menu.Categories {
			if flagMenuDiet == "veg" && len(cat.Veg) == 0 {
				continue
			}
			if flagMenuDiet == "non_veg" && len(cat.NonVeg) == 0 {
				continue
			}

			fmt.Fprintf(w, "%s\t\t\n", cat.CategoryName)
			if flagMenuDiet != "non_veg" {
				for _, item := range cat.Veg {
					fmt.Fprintf(w, "  %s\t%s\t%.2f\tveg\n", item.ItemID, item.Name, item.Price)
				}
			}
			if flagMenuDiet != "veg" {
				for _, item := range cat.NonVeg {
					fmt.Fprintf(w, "  %s\t%s\t%.2f\tnon-veg\n", item.ItemID, item.Name, item.Price)
				}
			}
		}
		return w.Flush()
	},
}

var flagMenuDiet string

func init() {
	menuCmd.Flags().StringVar(&flagMenuDiet, "diet", "", "filter by diet: veg or non_veg")
}
