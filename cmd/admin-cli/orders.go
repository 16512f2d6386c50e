package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
	"github.com/vladislavdragonenkov/storeadmin/internal/session"
	"github.com/vladislavdragonenkov/storeadmin/internal/store/rest"
)

func newOrdersCmd(newClient func() *rest.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Заказы витрины",
	}

	cmd.AddCommand(newOrdersListCmd(newClient))
	cmd.AddCommand(newOrdersShowCmd(newClient))
	cmd.AddCommand(newOrdersCreateCmd(newClient))
	cmd.AddCommand(newOrdersSetStatusCmd(newClient))
	cmd.AddCommand(newOrdersAddItemCmd(newClient))
	cmd.AddCommand(newOrdersSetQuantityCmd(newClient))
	cmd.AddCommand(newOrdersRemoveItemCmd(newClient))
	cmd.AddCommand(newOrdersDeleteCmd(newClient))
	return cmd
}

func newOrdersListCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать заказы, новые первыми",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := newClient().ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("заказов нет"))
				return nil
			}
			for _, order := range orders {
				fmt.Fprintln(cmd.OutOrStdout(), renderOrderLine(order))
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("    id: "+order.ID))
			}
			return nil
		},
	}
}

func newOrdersShowCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Показать заказ целиком",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := newClient().GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOrder(order))
			return nil
		},
	}
}

func newOrdersCreateCmd(newClient func() *rest.Client) *cobra.Command {
	var (
		status string
		items  []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Собрать черновик заказа и сохранить его",
		Long: "Черновик наполняется локально и отправляется на сервер одной " +
			"командой: сначала создаётся заказ, затем его позиции по порядку.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newClient()
			ctx := cmd.Context()

			catalog, err := client.ListProducts(ctx)
			if err != nil {
				return err
			}

			draft := session.NewDraft(client, nil)
			for _, spec := range items {
				product, quantity, err := parseItemSpec(catalog, spec)
				if err != nil {
					return err
				}
				if err := draft.AddItem(ctx, product, quantity); err != nil {
					return err
				}
			}

			persisted, err := draft.Commit(ctx, domain.OrderStatus(status))
			if err != nil {
				var partial *session.PartialCommitError
				if errors.As(err, &partial) && persisted != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(
						"заказ сохранён не полностью: позиция товара "+partial.FailedProduct+" не записана"))
					fmt.Fprint(cmd.OutOrStdout(), renderOrder(persisted.Order()))
				}
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderOrder(persisted.Order()))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(domain.OrderStatusPending), "начальный статус заказа")
	cmd.Flags().StringArrayVar(&items, "item", nil, "позиция вида <товар>:<количество>; товар задаётся id или именем")
	return cmd
}

func newOrdersSetStatusCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Перевести заказ в новый статус",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			persisted, err := session.Load(ctx, newClient(), args[0], nil)
			if err != nil {
				return err
			}
			if err := persisted.SetStatus(ctx, domain.OrderStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOrder(persisted.Order()))
			return nil
		},
	}
}

func newOrdersAddItemCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "add-item <order-id> <product> <quantity>",
		Short: "Добавить товар в сохранённый заказ",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			ctx := cmd.Context()

			quantity, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			catalog, err := client.ListProducts(ctx)
			if err != nil {
				return err
			}
			product, err := findProduct(catalog, args[1])
			if err != nil {
				return err
			}

			persisted, err := session.Load(ctx, client, args[0], nil)
			if err != nil {
				return err
			}
			if err := persisted.AddItem(ctx, product, quantity); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOrder(persisted.Order()))
			return nil
		},
	}
}

func newOrdersSetQuantityCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <order-id> <line> <quantity>",
		Short: "Задать количество в позиции заказа (номер строки из show)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return fmt.Errorf("некорректный номер строки %q", args[1])
			}
			quantity, err := parseQuantity(args[2])
			if err != nil {
				return err
			}

			persisted, err := session.Load(ctx, newClient(), args[0], nil)
			if err != nil {
				return err
			}
			if err := persisted.UpdateItemQuantity(ctx, line-1, quantity); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOrder(persisted.Order()))
			return nil
		},
	}
}

func newOrdersRemoveItemCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <order-id> <line>",
		Short: "Удалить позицию заказа (номер строки из show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return fmt.Errorf("некорректный номер строки %q", args[1])
			}

			persisted, err := session.Load(ctx, newClient(), args[0], nil)
			if err != nil {
				return err
			}
			if err := persisted.RemoveItem(ctx, line-1); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOrder(persisted.Order()))
			return nil
		},
	}
}

func newOrdersDeleteCmd(newClient func() *rest.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <order-id>",
		Short: "Удалить заказ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteOrder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "заказ удалён")
			return nil
		},
	}
}

func parseQuantity(raw string) (int32, error) {
	quantity, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || quantity <= 0 {
		return 0, fmt.Errorf("некорректное количество %q", raw)
	}
	return int32(quantity), nil
}

// parseItemSpec разбирает "<товар>:<количество>" против каталога.
func parseItemSpec(catalog []domain.Product, spec string) (domain.Product, int32, error) {
	idx := strings.LastIndexByte(spec, ':')
	if idx <= 0 || idx == len(spec)-1 {
		return domain.Product{}, 0, fmt.Errorf("некорректная позиция %q, ожидается <товар>:<количество>", spec)
	}
	quantity, err := parseQuantity(spec[idx+1:])
	if err != nil {
		return domain.Product{}, 0, err
	}
	product, err := findProduct(catalog, spec[:idx])
	if err != nil {
		return domain.Product{}, 0, err
	}
	return product, quantity, nil
}

func findProduct(catalog []domain.Product, key string) (domain.Product, error) {
	for _, product := range catalog {
		if product.ID == key || strings.EqualFold(product.Name, key) {
			return product, nil
		}
	}
	return domain.Product{}, fmt.Errorf("товар %q не найден в каталоге", key)
}
