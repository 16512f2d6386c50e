package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/storeadmin/internal/store/rest"
)

const defaultAPIBaseURL = "http://localhost:8080"

// newRootCmd собирает дерево команд консоли администратора.
func newRootCmd() *cobra.Command {
	var apiBaseURL string

	root := &cobra.Command{
		Use:           "storeadmin",
		Short:         "Консоль администратора витрины",
		Long:          "storeadmin работает с каталогом и заказами витрины через её REST API.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	base := os.Getenv("STOREADMIN_API_BASE_URL")
	if base == "" {
		base = defaultAPIBaseURL
	}
	root.PersistentFlags().StringVar(&apiBaseURL, "api", base, "базовый адрес REST API")

	newClient := func() *rest.Client {
		return rest.NewClient(apiBaseURL, &http.Client{Timeout: 15 * time.Second}, nil)
	}

	root.AddCommand(newProductsCmd(newClient))
	root.AddCommand(newOrdersCmd(newClient))
	return root
}
