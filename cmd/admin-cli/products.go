package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/storeadmin/internal/store/rest"
)

func newProductsCmd(newClient func() *rest.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Каталог товаров",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Показать каталог",
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := newClient().ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("каталог пуст"))
				return nil
			}
			for _, product := range products {
				fmt.Fprintln(cmd.OutOrStdout(), renderProductLine(product))
			}
			return nil
		},
	})

	return cmd
}
